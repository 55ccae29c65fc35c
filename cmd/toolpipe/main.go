// Command toolpipe runs a tool pipeline against a sandboxed directory.
//
// Usage:
//
//	echo '{"commands":[{"tool":"cat","args":{"file":"notes.txt"}},{"tool":"sort"}]}' | toolpipe [flags]
//
// Flags:
//
//	-dir string   Sandbox root directory (default ".")
//	-debug        Capture intermediate results for every step
//	-v            Verbose (debug-level) logging to stderr
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fwojciec/toolpipe"
	"github.com/fwojciec/toolpipe/builtin"
	"github.com/fwojciec/toolpipe/cache"
	"github.com/fwojciec/toolpipe/pipeline"
	"github.com/fwojciec/toolpipe/registry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "toolpipe: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dir     = flag.String("dir", ".", "Sandbox root directory")
		debug   = flag.Bool("debug", false, "Capture intermediate results for every step")
		verbose = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	root, err := filepath.Abs(*dir)
	if err != nil {
		return err
	}

	exec := builtin.NewExecutor(&dirFS{root: root})
	reg, err := registry.New(exec.Manifests())
	if err != nil {
		return err
	}

	composer := pipeline.New(reg, exec,
		pipeline.WithCache(cache.New()),
		pipeline.WithLogger(log),
	)

	var req toolpipe.PipelineRequest
	dec := json.NewDecoder(os.Stdin)
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("reading pipeline request: %w", err)
	}
	if *debug {
		req.Debug = true
	}

	res, err := composer.Run(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// dirFS implements the sandboxed file system over a root directory. Paths
// are confined to the root; escapes are rejected.
type dirFS struct {
	root string
}

func (d *dirFS) resolve(path string) (string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(d.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes sandbox", path)
	}
	return full, nil
}

func (d *dirFS) ReadFile(path string) ([]byte, error) {
	full, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (d *dirFS) WriteFile(path string, data []byte) error {
	full, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (d *dirFS) ListFiles() ([]string, error) {
	var entries []string
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		rel, relErr := filepath.Rel(d.root, path)
		if relErr != nil {
			return nil
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (d *dirFS) Rename(oldPath, newPath string) error {
	from, err := d.resolve(oldPath)
	if err != nil {
		return err
	}
	to, err := d.resolve(newPath)
	if err != nil {
		return err
	}
	return os.Rename(from, to)
}
