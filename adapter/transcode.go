package adapter

import "github.com/fwojciec/toolpipe"

// TranscodeManifest returns the manifest for the media transcoding tool.
// The input parameter is the single binary slot; it arrives base64-encoded
// on direct invocation or as raw piped bytes inside a pipeline.
func TranscodeManifest() *toolpipe.ToolManifest {
	return &toolpipe.ToolManifest{
		Name:        "transcode",
		Version:     "1.0.0",
		Description: "Transcode a media payload to another container or codec.",
		Category:    "media",
		Parameters: toolpipe.Parameters{
			Properties: map[string]toolpipe.ParameterSpec{
				"input":  {Type: toolpipe.ParamBinary, Description: "Media payload, base64-encoded"},
				"format": {Type: toolpipe.ParamString, Description: "Target container format (e.g. mp4, webm)"},
				"codec":  {Type: toolpipe.ParamString, Description: "Target codec"},
			},
			Order:    []string{"input", "format", "codec"},
			Required: []string{"format"},
		},
		Execution: toolpipe.ExecutionSpec{
			ArgStyle:   toolpipe.StyleFlags,
			FileAccess: toolpipe.FileAccessNone,
		},
		Returns: toolpipe.ReturnSpec{Type: "binary", Description: "Transcoded payload"},
	}
}

// NewTranscoder creates the transcoding adapter over an injected engine.
func NewTranscoder(engine Engine, binaries toolpipe.BinarySource, opts ...Option) *Adapter {
	return New(TranscodeManifest(), engine, binaries, opts...)
}
