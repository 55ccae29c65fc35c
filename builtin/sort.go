package builtin

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/toolpipe"
)

type sortArgs struct {
	Reverse bool `mapstructure:"reverse"`
	Numeric bool `mapstructure:"numeric"`
}

// SortManifest returns the manifest for the sort tool.
func SortManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "sort",
		Version:     "1.0.0",
		Description: "Sort stdin lines lexicographically or numerically.",
		Category:    "text",
		Parameters: toolpipe.Parameters{
			Properties: map[string]toolpipe.ParameterSpec{
				"reverse": {Type: toolpipe.ParamBoolean, Description: "Sort in descending order"},
				"numeric": {Type: toolpipe.ParamBoolean, Description: "Compare by leading numeric value"},
			},
			Order: []string{"reverse", "numeric"},
		},
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessNone,
		},
		Returns: toolpipe.ReturnSpec{Type: "string", Description: "Sorted lines"},
	}
}

func (e *Executor) runSort(_ context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	var a sortArgs
	if err := decodeArgs(inv.Args, &a); err != nil {
		return domainError("sort: invalid arguments: %s", err), nil
	}

	st := newState(inv)
	lines := splitLines(string(drain(st)))

	less := func(i, j int) bool { return lines[i] < lines[j] }
	if a.Numeric {
		less = func(i, j int) bool {
			ni, iok := leadingNumber(lines[i])
			nj, jok := leadingNumber(lines[j])
			switch {
			case iok && jok && ni != nj:
				return ni < nj
			case iok != jok:
				// Non-numeric lines sort before numeric ones, like sort -n.
				return !iok
			default:
				return lines[i] < lines[j]
			}
		}
	}
	sort.SliceStable(lines, less)
	if a.Reverse {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}

	writeLines(st, lines)
	return finish(st), nil
}

// leadingNumber parses the numeric prefix of a line, if any.
func leadingNumber(line string) (float64, bool) {
	s := strings.TrimLeft(line, " \t")
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+' {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
