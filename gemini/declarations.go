// Package gemini converts tool manifests to Gemini function declarations
// and tool calls back into pipeline steps. This is the runtime's only
// provider-facing surface; client construction and streaming live with the
// host application.
package gemini

import (
	"github.com/fwojciec/toolpipe"
	"google.golang.org/genai"
)

// Declarations converts manifests to genai tool declarations. Binary
// parameters are declared as strings, since they cross the argument
// boundary base64-encoded.
func Declarations(manifests []*toolpipe.ToolManifest) []*genai.Tool {
	if len(manifests) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(manifests))
	for i, m := range manifests {
		decls[i] = &genai.FunctionDeclaration{
			Name:                 m.Name,
			Description:          m.Description,
			ParametersJsonSchema: paramSchema(m),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// StepFromCall converts a model function call into a pipeline step.
func StepFromCall(call *genai.FunctionCall) toolpipe.PipelineStep {
	return toolpipe.PipelineStep{
		Tool: call.Name,
		Args: toolpipe.ExecutionArgs(call.Args),
	}
}

func paramSchema(m *toolpipe.ToolManifest) map[string]any {
	props := make(map[string]any, len(m.Parameters.Properties))
	for _, name := range m.Parameters.Names() {
		spec := m.Parameters.Properties[name]
		prop := map[string]any{"description": spec.Description}
		switch spec.Type {
		case toolpipe.ParamNumber:
			prop["type"] = "number"
		case toolpipe.ParamBoolean:
			prop["type"] = "boolean"
		case toolpipe.ParamBinary:
			prop["type"] = "string"
			prop["contentEncoding"] = "base64"
		default:
			prop["type"] = "string"
		}
		props[name] = prop
	}

	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(m.Parameters.Required) > 0 {
		schema["required"] = m.Parameters.Required
	}
	return schema
}
