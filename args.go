package toolpipe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExecutionArgs is the untyped key-value argument map supplied by a caller,
// commonly an LLM tool call. It is transient: it exists only for the
// duration of one invocation.
type ExecutionArgs map[string]any

// StdinBinaryKey is the reserved argument key carrying a raw byte payload
// forwarded from a prior pipeline step. It bypasses base64 decoding and is
// never rendered into cliArgs.
const StdinBinaryKey = "_stdinBinary"

// ConvertedInvocation is the strongly-typed output of applying a manifest to
// ExecutionArgs: ordered cliArgs with the binary parameter removed, plus the
// decoded stdin payload when one was supplied.
type ConvertedInvocation struct {
	CLIArgs     []string
	StdinBinary []byte
}

// ConvertArguments validates args against the manifest and renders them into
// a ConvertedInvocation. The manifest is re-validated defensively; untyped
// values never reach execution logic without passing through here.
func ConvertArguments(m *ToolManifest, args ExecutionArgs) (*ConvertedInvocation, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	for name := range args {
		if name == StdinBinaryKey {
			continue
		}
		if _, ok := m.Parameters.Properties[name]; !ok {
			return nil, fmt.Errorf("tool %q: unknown parameter %q: %w", m.Name, name, ErrValidation)
		}
	}

	var missing []string
	for _, req := range m.Parameters.Required {
		if _, ok := args[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("tool %q: missing required parameters: %s: %w",
			m.Name, strings.Join(missing, ", "), ErrValidation)
	}

	conv := &ConvertedInvocation{}

	// A raw payload forwarded from an upstream step wins over any base64
	// argument; it never needs decoding.
	if raw, ok := args[StdinBinaryKey].([]byte); ok {
		conv.StdinBinary = raw
	}

	binaryName, hasBinary := m.BinaryParameter()
	if hasBinary {
		if v, ok := args[binaryName]; ok && conv.StdinBinary == nil {
			// A non-string value means the caller sourced the payload from a
			// prior step's raw stdout instead; no stdin binary is produced.
			if s, ok := v.(string); ok {
				decoded, err := DecodeBase64(s)
				if err != nil {
					return nil, fmt.Errorf("tool %q: parameter %q: %w", m.Name, binaryName, err)
				}
				conv.StdinBinary = decoded
			}
		}
	}

	rest := make(ExecutionArgs, len(args))
	for k, v := range args {
		if k == StdinBinaryKey || (hasBinary && k == binaryName) {
			continue
		}
		rest[k] = v
	}

	cli, err := renderCLI(m, rest)
	if err != nil {
		return nil, err
	}
	conv.CLIArgs = cli
	return conv, nil
}

// renderCLI renders the non-binary arguments according to the manifest's arg
// style. The tool's own name is always the first token.
func renderCLI(m *ToolManifest, args ExecutionArgs) ([]string, error) {
	cli := []string{m.Name}

	switch m.Execution.ArgStyle {
	case StyleStructured:
		blob, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("tool %q: cannot serialize structured arguments: %w", m.Name, err)
		}
		cli = append(cli, string(blob))

	case StylePositional:
		for _, name := range m.Parameters.Names() {
			v, ok := args[name]
			if !ok {
				continue
			}
			cli = append(cli, formatValue(v))
		}

	case StyleFlags, "":
		for _, name := range m.Parameters.Names() {
			v, ok := args[name]
			if !ok {
				continue
			}
			if b, isBool := v.(bool); isBool {
				// Booleans emit the bare flag when true, nothing when false.
				if b {
					cli = append(cli, "--"+name)
				}
				continue
			}
			cli = append(cli, "--"+name, formatValue(v))
		}
	}

	return cli, nil
}

// formatValue renders a scalar argument as a CLI token. JSON numbers arrive
// as float64; integral values must render without an exponent or decimal.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
