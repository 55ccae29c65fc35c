package builtin

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/toolpipe"
)

type wcArgs struct {
	Lines bool `mapstructure:"lines"`
	Words bool `mapstructure:"words"`
	Bytes bool `mapstructure:"bytes"`
}

// WcManifest returns the manifest for the wc tool.
func WcManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "wc",
		Version:     "1.0.0",
		Description: "Count lines, words, and bytes of stdin. Flags select individual counts.",
		Category:    "text",
		Parameters: toolpipe.Parameters{
			Properties: map[string]toolpipe.ParameterSpec{
				"lines": {Type: toolpipe.ParamBoolean, Description: "Output the line count only"},
				"words": {Type: toolpipe.ParamBoolean, Description: "Output the word count only"},
				"bytes": {Type: toolpipe.ParamBoolean, Description: "Output the byte count only"},
			},
			Order: []string{"lines", "words", "bytes"},
		},
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessNone,
		},
		Returns: toolpipe.ReturnSpec{Type: "string", Description: "Requested counts"},
	}
}

func (e *Executor) runWc(_ context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	var a wcArgs
	if err := decodeArgs(inv.Args, &a); err != nil {
		return domainError("wc: invalid arguments: %s", err), nil
	}

	st := newState(inv)
	data := drain(st)

	lineCount := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		lineCount++
	}
	wordCount := len(strings.Fields(string(data)))
	byteCount := len(data)

	var fields []string
	if a.Lines {
		fields = append(fields, fmt.Sprintf("%d", lineCount))
	}
	if a.Words {
		fields = append(fields, fmt.Sprintf("%d", wordCount))
	}
	if a.Bytes {
		fields = append(fields, fmt.Sprintf("%d", byteCount))
	}
	if len(fields) == 0 {
		fields = []string{
			fmt.Sprintf("%d", lineCount),
			fmt.Sprintf("%d", wordCount),
			fmt.Sprintf("%d", byteCount),
		}
	}

	st.WriteStdoutString(strings.Join(fields, " ") + "\n")
	return finish(st), nil
}
