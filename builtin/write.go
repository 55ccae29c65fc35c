package builtin

import (
	"context"
	"fmt"

	"github.com/fwojciec/toolpipe"
)

type writeArgs struct {
	Path    string  `mapstructure:"path"`
	Content *string `mapstructure:"content"`
}

// WriteManifest returns the manifest for the write tool.
func WriteManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "write",
		Version:     "1.0.0",
		Description: "Write stdin (or explicit content) to a file in the sandbox.",
		Category:    "file",
		Parameters: toolpipe.Parameters{
			Properties: map[string]toolpipe.ParameterSpec{
				"path":    {Type: toolpipe.ParamString, Description: "Destination path"},
				"content": {Type: toolpipe.ParamString, Description: "Content to write; omit to write stdin"},
			},
			Order:    []string{"path", "content"},
			Required: []string{"path"},
		},
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessWrite,
		},
		Returns: toolpipe.ReturnSpec{Type: "string", Description: "Write confirmation"},
	}
}

func (e *Executor) runWrite(_ context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	var a writeArgs
	if err := decodeArgs(inv.Args, &a); err != nil {
		return domainError("write: invalid arguments: %s", err), nil
	}
	if a.Path == "" {
		return domainError("write: path is required"), nil
	}

	st := newState(inv)

	// Explicit content wins; otherwise the piped stdin bytes are written
	// verbatim, preserving binary fidelity.
	var data []byte
	if a.Content != nil {
		data = []byte(*a.Content)
	} else {
		data = drain(st)
	}

	if err := e.fs.WriteFile(a.Path, data); err != nil {
		return domainError("write: %s: %s", a.Path, err), nil
	}

	st.WriteStdoutString(fmt.Sprintf("wrote %d bytes to %s\n", len(data), a.Path))
	return finish(st), nil
}
