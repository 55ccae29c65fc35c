// Package toolpipe defines the domain types and contracts for the tool
// execution and pipeline runtime: tool manifests, argument conversion,
// execution results, and pipeline requests. Behavior lives in subpackages
// (vio, builtin, adapter, pipeline, cache, registry).
package toolpipe

import (
	"fmt"
	"sort"
	"strings"
)

// ParamType enumerates the types a manifest parameter may declare.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"

	// ParamBinary marks the single parameter that carries a binary payload,
	// base64-encoded across the argument boundary and physically transported
	// as the tool's stdin stream.
	ParamBinary ParamType = "binary"
)

// ArgStyle determines how converted arguments are rendered into cliArgs.
type ArgStyle string

const (
	StylePositional ArgStyle = "positional"
	StyleFlags      ArgStyle = "cli-flags"
	StyleStructured ArgStyle = "structured"
)

// FileAccess declares how a tool touches the sandboxed file system.
// Anything other than FileAccessNone routes through the permission gate.
type FileAccess string

const (
	FileAccessNone      FileAccess = "none"
	FileAccessRead      FileAccess = "read"
	FileAccessWrite     FileAccess = "write"
	FileAccessReadWrite FileAccess = "readwrite"
)

// ParameterSpec describes a single manifest parameter.
type ParameterSpec struct {
	Type        ParamType `json:"type"`
	Description string    `json:"description,omitempty"`
}

// Parameters is the manifest's parameter object schema. Order preserves
// declaration order, which drives positional rendering and deterministic
// diagnostics; when empty, sorted property names are used instead.
type Parameters struct {
	Properties map[string]ParameterSpec `json:"properties"`
	Order      []string                 `json:"order,omitempty"`
	Required   []string                 `json:"required,omitempty"`
}

// Names returns parameter names in declaration order, falling back to
// sorted order so diagnostics and positional rendering are reproducible.
func (p Parameters) Names() []string {
	if len(p.Order) > 0 {
		return p.Order
	}
	names := make([]string, 0, len(p.Properties))
	for name := range p.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecutionSpec declares how a tool is invoked.
type ExecutionSpec struct {
	ArgStyle   ArgStyle   `json:"arg_style"`
	FileAccess FileAccess `json:"file_access"`
}

// ReturnSpec describes a tool's return value.
type ReturnSpec struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ToolManifest declares a tool's contract. Manifests are created at
// registration time and read-only thereafter.
type ToolManifest struct {
	Name        string        `json:"name"`
	Version     string        `json:"version,omitempty"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	Parameters  Parameters    `json:"parameters"`
	Execution   ExecutionSpec `json:"execution"`
	Returns     ReturnSpec    `json:"returns,omitempty"`
}

// BinaryParameter returns the name of the manifest's binary parameter, if
// exactly one is declared. The second return is false when none exists.
// Manifests with multiple binary parameters are invalid; use Validate.
func (m *ToolManifest) BinaryParameter() (string, bool) {
	for _, name := range m.Parameters.Names() {
		if m.Parameters.Properties[name].Type == ParamBinary {
			return name, true
		}
	}
	return "", false
}

// Validate checks structural constraints on the manifest. The core rule: at
// most one parameter may be binary-typed, because binary payloads travel as
// a single stdin stream. Violations list every offending parameter in
// declaration order.
func (m *ToolManifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest name is required: %w", ErrValidation)
	}

	switch m.Execution.ArgStyle {
	case StylePositional, StyleFlags, StyleStructured, "":
	default:
		return fmt.Errorf("unknown arg style %q: %w", m.Execution.ArgStyle, ErrValidation)
	}
	switch m.Execution.FileAccess {
	case FileAccessNone, FileAccessRead, FileAccessWrite, FileAccessReadWrite, "":
	default:
		return fmt.Errorf("unknown file access %q: %w", m.Execution.FileAccess, ErrValidation)
	}

	var binary []string
	for _, name := range m.Parameters.Names() {
		spec, ok := m.Parameters.Properties[name]
		if !ok {
			return fmt.Errorf("parameter order lists unknown parameter %q: %w", name, ErrValidation)
		}
		switch spec.Type {
		case ParamString, ParamNumber, ParamBoolean:
		case ParamBinary:
			binary = append(binary, name)
		default:
			return fmt.Errorf("parameter %q has unknown type %q: %w", name, spec.Type, ErrValidation)
		}
	}
	if len(binary) > 1 {
		return fmt.Errorf("manifest %q declares multiple binary parameters (%s); at most one is allowed: %w",
			m.Name, strings.Join(binary, ", "), ErrValidation)
	}

	for _, req := range m.Parameters.Required {
		if _, ok := m.Parameters.Properties[req]; !ok {
			return fmt.Errorf("required parameter %q is not declared: %w", req, ErrValidation)
		}
	}

	return nil
}
