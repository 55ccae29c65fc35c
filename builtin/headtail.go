package builtin

import (
	"context"

	"github.com/fwojciec/toolpipe"
)

const defaultHeadTailLines = 10

type headTailArgs struct {
	Lines int `mapstructure:"lines"`
}

func headTailParams() toolpipe.Parameters {
	return toolpipe.Parameters{
		Properties: map[string]toolpipe.ParameterSpec{
			"lines": {Type: toolpipe.ParamNumber, Description: "Number of lines to keep (default 10)"},
		},
		Order: []string{"lines"},
	}
}

// HeadManifest returns the manifest for the head tool.
func HeadManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "head",
		Version:     "1.0.0",
		Description: "Output the first N lines of stdin.",
		Category:    "text",
		Parameters:  headTailParams(),
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessNone,
		},
		Returns: toolpipe.ReturnSpec{Type: "string", Description: "Leading lines"},
	}
}

// TailManifest returns the manifest for the tail tool.
func TailManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "tail",
		Version:     "1.0.0",
		Description: "Output the last N lines of stdin.",
		Category:    "text",
		Parameters:  headTailParams(),
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessNone,
		},
		Returns: toolpipe.ReturnSpec{Type: "string", Description: "Trailing lines"},
	}
}

func (e *Executor) runHead(_ context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	return headTail(inv, true)
}

func (e *Executor) runTail(_ context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	return headTail(inv, false)
}

func headTail(inv toolpipe.Invocation, head bool) (*toolpipe.ExecutionResult, error) {
	a := headTailArgs{Lines: defaultHeadTailLines}
	if err := decodeArgs(inv.Args, &a); err != nil {
		return domainError("invalid arguments: %s", err), nil
	}
	if a.Lines < 0 {
		return domainError("lines must be non-negative, got %d", a.Lines), nil
	}

	st := newState(inv)
	lines := splitLines(string(drain(st)))
	if len(lines) > a.Lines {
		if head {
			lines = lines[:a.Lines]
		} else {
			lines = lines[len(lines)-a.Lines:]
		}
	}
	writeLines(st, lines)
	return finish(st), nil
}
