package gemini_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/fwojciec/toolpipe"
	"github.com/fwojciec/toolpipe/builtin"
	"github.com/fwojciec/toolpipe/gemini"
	"github.com/fwojciec/toolpipe/mock"
)

func TestDeclarations(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields no tools", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, gemini.Declarations(nil))
	})

	t.Run("builtin manifests convert one declaration each", func(t *testing.T) {
		t.Parallel()
		manifests := builtin.NewExecutor(mock.NewFileSystem()).Manifests()
		tools := gemini.Declarations(manifests)
		require.Len(t, tools, 1)
		require.Len(t, tools[0].FunctionDeclarations, len(manifests))

		byName := make(map[string]*genai.FunctionDeclaration)
		for _, d := range tools[0].FunctionDeclarations {
			byName[d.Name] = d
		}

		grep, ok := byName["grep"]
		require.True(t, ok)
		assert.NotEmpty(t, grep.Description)

		doc, ok := grep.ParametersJsonSchema.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "object", doc["type"])
		props, ok := doc["properties"].(map[string]any)
		require.True(t, ok)
		pattern, ok := props["pattern"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "string", pattern["type"])
		assert.Equal(t, []string{"pattern"}, doc["required"])
	})

	t.Run("binary parameters declare base64 string transport", func(t *testing.T) {
		t.Parallel()
		m := &toolpipe.ToolManifest{
			Name: "transcode",
			Parameters: toolpipe.Parameters{
				Properties: map[string]toolpipe.ParameterSpec{
					"input":  {Type: toolpipe.ParamBinary, Description: "media payload"},
					"format": {Type: toolpipe.ParamString},
				},
				Order: []string{"input", "format"},
			},
		}

		tools := gemini.Declarations([]*toolpipe.ToolManifest{m})
		require.Len(t, tools, 1)

		doc := tools[0].FunctionDeclarations[0].ParametersJsonSchema.(map[string]any)
		props := doc["properties"].(map[string]any)
		input := props["input"].(map[string]any)
		assert.Equal(t, "string", input["type"])
		assert.Equal(t, "base64", input["contentEncoding"])
	})
}

func TestStepFromCall(t *testing.T) {
	t.Parallel()

	step := gemini.StepFromCall(&genai.FunctionCall{
		Name: "grep",
		Args: map[string]any{"pattern": "^a", "invert": true},
	})
	assert.Equal(t, "grep", step.Tool)
	assert.Equal(t, toolpipe.ExecutionArgs{"pattern": "^a", "invert": true}, step.Args)
}
