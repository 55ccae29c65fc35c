package builtin

import (
	"context"
	"regexp"

	"github.com/fwojciec/toolpipe"
)

type grepArgs struct {
	Pattern    string `mapstructure:"pattern"`
	Invert     bool   `mapstructure:"invert"`
	IgnoreCase bool   `mapstructure:"ignore_case"`
}

// GrepManifest returns the manifest for the grep tool.
func GrepManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "grep",
		Version:     "1.0.0",
		Description: "Filter stdin lines by a regular expression.",
		Category:    "text",
		Parameters: toolpipe.Parameters{
			Properties: map[string]toolpipe.ParameterSpec{
				"pattern":     {Type: toolpipe.ParamString, Description: "Regular expression to match lines against"},
				"invert":      {Type: toolpipe.ParamBoolean, Description: "Emit non-matching lines instead"},
				"ignore_case": {Type: toolpipe.ParamBoolean, Description: "Case-insensitive matching"},
			},
			Order:    []string{"pattern", "invert", "ignore_case"},
			Required: []string{"pattern"},
		},
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessNone,
		},
		Returns: toolpipe.ReturnSpec{Type: "string", Description: "Matching lines"},
	}
}

func (e *Executor) runGrep(_ context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	var a grepArgs
	if err := decodeArgs(inv.Args, &a); err != nil {
		return domainError("grep: invalid arguments: %s", err), nil
	}
	if a.Pattern == "" {
		return domainError("grep: pattern is required"), nil
	}

	pattern := a.Pattern
	if a.IgnoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return domainError("grep: invalid regex pattern: %s", err), nil
	}

	st := newState(inv)
	var out []string
	for _, line := range splitLines(string(drain(st))) {
		if re.MatchString(line) != a.Invert {
			out = append(out, line)
		}
	}
	writeLines(st, out)
	return finish(st), nil
}
