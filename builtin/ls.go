package builtin

import (
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fwojciec/toolpipe"
)

type lsArgs struct {
	Pattern string `mapstructure:"pattern"`
}

// LsManifest returns the manifest for the ls tool.
func LsManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "ls",
		Version:     "1.0.0",
		Description: "List sandbox files, optionally filtered by a glob pattern (e.g. **/*.txt).",
		Category:    "file",
		Parameters: toolpipe.Parameters{
			Properties: map[string]toolpipe.ParameterSpec{
				"pattern": {Type: toolpipe.ParamString, Description: "Doublestar glob to filter entries"},
			},
			Order: []string{"pattern"},
		},
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessRead,
		},
		Returns: toolpipe.ReturnSpec{Type: "string", Description: "One entry per line"},
	}
}

func (e *Executor) runLs(_ context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	var a lsArgs
	if err := decodeArgs(inv.Args, &a); err != nil {
		return domainError("ls: invalid arguments: %s", err), nil
	}
	if a.Pattern != "" {
		if !doublestar.ValidatePattern(a.Pattern) {
			return domainError("ls: invalid glob pattern: %s", a.Pattern), nil
		}
	}

	entries, err := e.fs.ListFiles()
	if err != nil {
		return domainError("ls: %s", err), nil
	}

	st := newState(inv)
	var out []string
	for _, entry := range entries {
		if a.Pattern != "" {
			matched, err := doublestar.Match(a.Pattern, filepath.ToSlash(entry))
			if err != nil || !matched {
				continue
			}
		}
		out = append(out, entry)
	}
	writeLines(st, out)
	return finish(st), nil
}
