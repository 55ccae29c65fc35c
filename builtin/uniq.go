package builtin

import (
	"context"

	"github.com/fwojciec/toolpipe"
)

type uniqArgs struct {
	Global bool `mapstructure:"global"`
}

// UniqManifest returns the manifest for the uniq tool.
func UniqManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "uniq",
		Version:     "1.0.0",
		Description: "Collapse duplicate adjacent stdin lines; global drops duplicates anywhere.",
		Category:    "text",
		Parameters: toolpipe.Parameters{
			Properties: map[string]toolpipe.ParameterSpec{
				"global": {Type: toolpipe.ParamBoolean, Description: "Drop duplicates regardless of adjacency"},
			},
			Order: []string{"global"},
		},
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessNone,
		},
		Returns: toolpipe.ReturnSpec{Type: "string", Description: "Deduplicated lines"},
	}
}

func (e *Executor) runUniq(_ context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	var a uniqArgs
	if err := decodeArgs(inv.Args, &a); err != nil {
		return domainError("uniq: invalid arguments: %s", err), nil
	}

	st := newState(inv)
	lines := splitLines(string(drain(st)))

	var out []string
	if a.Global {
		seen := make(map[string]struct{}, len(lines))
		for _, line := range lines {
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			out = append(out, line)
		}
	} else {
		for i, line := range lines {
			if i > 0 && line == lines[i-1] {
				continue
			}
			out = append(out, line)
		}
	}

	writeLines(st, out)
	return finish(st), nil
}
