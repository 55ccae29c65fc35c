// Package adapter bridges the runtime's uniform Runner contract to concrete
// external processing engines (a transcoder, an image processor). Engines
// are initialized lazily and exactly once per process; concurrent first-use
// converges on a single initialization attempt, and a failed attempt clears
// the in-flight marker so the next caller retries instead of wedging.
package adapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fwojciec/toolpipe"
)

// Engine is the external processing library behind an adapter. Init receives
// the tool's cached library binary; Process transforms the payload according
// to the rendered CLI arguments.
type Engine interface {
	Init(ctx context.Context, library []byte) error
	Process(ctx context.Context, input []byte, cliArgs []string) ([]byte, error)
}

// attempt is one in-flight initialization. Waiters block on done and then
// read err, so every concurrent caller observes the leader's outcome.
type attempt struct {
	done chan struct{}
	err  error
}

// initCell is the lazy-init-with-dedup arena slot: uninitialized, in-flight,
// or ready.
type initCell struct {
	mu    sync.Mutex
	ready bool
	cur   *attempt
}

// do runs fn at most once concurrently. Followers wait for the leader's
// attempt and share its error; a failed attempt leaves the cell
// uninitialized so a later call retries.
func (c *initCell) do(ctx context.Context, fn func() error) error {
	c.mu.Lock()
	if c.ready {
		c.mu.Unlock()
		return nil
	}
	if c.cur != nil {
		a := c.cur
		c.mu.Unlock()
		select {
		case <-a.done:
			return a.err
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", toolpipe.ErrCanceled, ctx.Err())
		}
	}

	a := &attempt{done: make(chan struct{})}
	c.cur = a
	c.mu.Unlock()

	err := fn()

	c.mu.Lock()
	c.ready = err == nil
	c.cur = nil
	c.mu.Unlock()

	a.err = err
	close(a.done)
	return err
}

// Adapter runs a named tool through an external Engine. It implements
// toolpipe.Runner; internal failures and panics are converted to failed
// ExecutionResults and never propagate into the composer.
type Adapter struct {
	name     string
	manifest *toolpipe.ToolManifest
	engine   Engine
	binaries toolpipe.BinarySource
	log      logrus.FieldLogger
	init     initCell
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the structured logger. Default discards.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Adapter) { a.log = log }
}

// New creates an Adapter for the given manifest over an injected engine and
// library binary source.
func New(manifest *toolpipe.ToolManifest, engine Engine, binaries toolpipe.BinarySource, opts ...Option) *Adapter {
	a := &Adapter{
		name:     manifest.Name,
		manifest: manifest,
		engine:   engine,
		binaries: binaries,
		log:      discardLogger(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Manifest returns the adapter's tool manifest.
func (a *Adapter) Manifest() *toolpipe.ToolManifest { return a.manifest }

// Run implements toolpipe.Runner.
func (a *Adapter) Run(ctx context.Context, inv toolpipe.Invocation) (res *toolpipe.ExecutionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = toolpipe.Failure(fmt.Sprintf("%s: engine panic: %v", a.name, r))
			err = nil
		}
	}()

	if initErr := a.init.do(ctx, func() error { return a.initialize(ctx) }); initErr != nil {
		if ctx.Err() != nil {
			return toolpipe.Failure(fmt.Sprintf("%s: %s", a.name, initErr)), nil
		}
		return toolpipe.Failure(fmt.Sprintf("%s: engine initialization failed: %s", a.name, initErr)), nil
	}

	payload := inv.Stdin
	if payload == nil {
		// Fallback for direct, non-piped invocation where conversion left
		// the payload under the reserved key.
		if raw, ok := inv.Args[toolpipe.StdinBinaryKey].([]byte); ok {
			payload = raw
		}
	}

	out, procErr := a.engine.Process(ctx, payload, inv.CLI)
	if procErr != nil {
		if ctx.Err() != nil {
			return toolpipe.Failure(fmt.Sprintf("%s: %v: %s", a.name, toolpipe.ErrCanceled, procErr)), nil
		}
		return toolpipe.Failure(fmt.Sprintf("%s: %s", a.name, procErr)), nil
	}

	a.log.WithFields(logrus.Fields{"tool": a.name, "bytes": len(out)}).Debug("engine processed payload")

	// Binary-producing tools populate stdout with the base64 encoding of the
	// same bytes for text-channel compatibility.
	return &toolpipe.ExecutionResult{
		Success:      true,
		Stdout:       toolpipe.EncodeBase64(out),
		StdoutBinary: out,
		ExitCode:     0,
	}, nil
}

func (a *Adapter) initialize(ctx context.Context) error {
	library, err := a.binaries.GetBinary(a.name)
	if err != nil {
		return fmt.Errorf("fetch library binary: %w", err)
	}
	a.log.WithField("tool", a.name).Debug("initializing engine")
	return a.engine.Init(ctx, library)
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(nopWriter{})
	return log
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
