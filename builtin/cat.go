package builtin

import (
	"context"

	"github.com/fwojciec/toolpipe"
)

type catArgs struct {
	File string `mapstructure:"file"`
}

// CatManifest returns the manifest for the cat tool.
func CatManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "cat",
		Version:     "1.0.0",
		Description: "Output the contents of a file, or pass stdin through unchanged.",
		Category:    "text",
		Parameters: toolpipe.Parameters{
			Properties: map[string]toolpipe.ParameterSpec{
				"file": {Type: toolpipe.ParamString, Description: "Path of the file to read; omit to pass stdin through"},
			},
			Order: []string{"file"},
		},
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StylePositional,
			FileAccess: toolpipe.FileAccessRead,
		},
		Returns: toolpipe.ReturnSpec{Type: "string", Description: "File or stdin contents"},
	}
}

func (e *Executor) runCat(_ context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	var a catArgs
	if err := decodeArgs(inv.Args, &a); err != nil {
		return domainError("cat: invalid arguments: %s", err), nil
	}

	st := newState(inv)

	if a.File != "" {
		data, err := e.fs.ReadFile(a.File)
		if err != nil {
			return domainError("cat: %s: %s", a.File, err), nil
		}
		st.WriteStdout(data)
		return finish(st), nil
	}

	st.WriteStdout(drain(st))
	return finish(st), nil
}
