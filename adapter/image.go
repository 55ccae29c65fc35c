package adapter

import "github.com/fwojciec/toolpipe"

// ImageManifest returns the manifest for the image processing tool.
func ImageManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "image",
		Version:     "1.0.0",
		Description: "Resize, crop, or convert an image payload.",
		Category:    "media",
		Parameters: toolpipe.Parameters{
			Properties: map[string]toolpipe.ParameterSpec{
				"input":     {Type: toolpipe.ParamBinary, Description: "Image payload, base64-encoded"},
				"operation": {Type: toolpipe.ParamString, Description: "Operation: resize, crop, convert"},
				"width":     {Type: toolpipe.ParamNumber, Description: "Target width in pixels"},
				"height":    {Type: toolpipe.ParamNumber, Description: "Target height in pixels"},
			},
			Order:    []string{"input", "operation", "width", "height"},
			Required: []string{"operation"},
		},
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessNone,
		},
		Returns: toolpipe.ReturnSpec{Type: "binary", Description: "Processed image payload"},
	}
}

// NewImageProcessor creates the image processing adapter over an injected
// engine.
func NewImageProcessor(engine Engine, binaries toolpipe.BinarySource, opts ...Option) *Adapter {
	return New(ImageManifest(), engine, binaries, opts...)
}
