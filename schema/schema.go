// Package schema validates untyped execution arguments against a manifest's
// parameter object schema using JSON Schema, before anything touches
// execution logic.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fwojciec/toolpipe"
)

// ValidateArgs checks args against the manifest's parameter schema: declared
// types must match and required parameters must be present. Binary
// parameters travel as base64 strings, so they validate as strings here;
// base64 well-formedness is checked later by argument conversion. Failures
// wrap toolpipe.ErrValidation with every violation listed.
func ValidateArgs(m *toolpipe.ToolManifest, args toolpipe.ExecutionArgs) error {
	doc := make(map[string]any, len(args))
	for k, v := range args {
		if k == toolpipe.StdinBinaryKey {
			continue
		}
		doc[k] = v
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schemaFor(m)),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("tool %q: schema validation: %w", m.Name, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("tool %q: invalid arguments: %s: %w",
		m.Name, strings.Join(msgs, "; "), toolpipe.ErrValidation)
}

// schemaFor renders the manifest's parameters as a JSON Schema document.
func schemaFor(m *toolpipe.ToolManifest) map[string]any {
	props := make(map[string]any, len(m.Parameters.Properties))
	for _, name := range m.Parameters.Names() {
		spec := m.Parameters.Properties[name]
		props[name] = map[string]any{
			"type":        jsonType(spec.Type),
			"description": spec.Description,
		}
	}

	doc := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(m.Parameters.Required) > 0 {
		doc["required"] = m.Parameters.Required
	}
	return doc
}

func jsonType(t toolpipe.ParamType) string {
	switch t {
	case toolpipe.ParamNumber:
		return "number"
	case toolpipe.ParamBoolean:
		return "boolean"
	default:
		// Strings and base64-encoded binary payloads.
		return "string"
	}
}
