// Package builtin provides the built-in text filter and transform tools:
// cat, grep, sort, head, tail, uniq, wc, write, and ls. Each implements the
// same Runner contract as external library adapters, just without an engine,
// which is why builtins and adapters compose through one pipeline without
// special-casing.
package builtin

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/fwojciec/toolpipe"
	"github.com/fwojciec/toolpipe/vio"
)

// readChunk is the stdin read size. Builtins consume stdin through chunked
// reads rather than one slurp, mirroring the non-blocking pipe protocol.
const readChunk = 4096

func domainError(format string, a ...any) *toolpipe.ExecutionResult {
	return toolpipe.Failure(fmt.Sprintf(format, a...))
}

// finish assembles a successful result from the invocation's I/O state.
// Stdout is the lossy text view; StdoutBinary the exact bytes.
func finish(st *vio.State) *toolpipe.ExecutionResult {
	res := &toolpipe.ExecutionResult{
		Success:  true,
		Stdout:   st.Stdout(),
		Stderr:   st.Stderr(),
		ExitCode: 0,
	}
	if bin := st.StdoutBinary(); len(bin) > 0 {
		res.StdoutBinary = bin
	}
	return res
}

// decodeArgs decodes the untyped argument map into a typed per-tool struct.
// Weak typing tolerates JSON's float64 numbers landing in int fields.
func decodeArgs(args toolpipe.ExecutionArgs, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(args))
}

// drain consumes the remaining stdin buffer in chunks.
func drain(st *vio.State) []byte {
	var all []byte
	for {
		chunk := st.ReadStdin(readChunk)
		if len(chunk) == 0 {
			return all
		}
		all = append(all, chunk...)
	}
}

// newState builds the invocation's I/O state with stdin preloaded.
func newState(inv toolpipe.Invocation) *vio.State {
	st := vio.NewState()
	if inv.Stdin != nil {
		st.SetStdin(inv.Stdin)
	}
	return st
}

// splitLines splits s into lines, treating the final line as a line even
// without a trailing newline. A trailing newline does NOT produce an empty
// final element.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// writeLines emits lines to stdout with a trailing newline after each.
func writeLines(st *vio.State, lines []string) {
	for _, line := range lines {
		st.WriteStdoutString(line)
		st.WriteStdoutString("\n")
	}
}
