package toolpipe

// ExecutionResult is the outcome of one tool invocation.
//
// Stdout is always the lossy UTF-8 text view for human and LLM display.
// StdoutBinary, when set, is the authoritative byte-exact payload for
// downstream binary-aware consumers or file writes. Tools producing only
// binary output still populate Stdout with the base64 encoding of the same
// bytes for text-channel compatibility.
type ExecutionResult struct {
	Success      bool   `json:"success"`
	Stdout       string `json:"stdout"`
	Stderr       string `json:"stderr,omitempty"`
	ExitCode     int    `json:"exit_code"`
	StdoutBinary []byte `json:"stdout_binary,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Failure builds a failed result carrying the same diagnostic on both the
// error and stderr channels, as the adapter contract requires.
func Failure(msg string) *ExecutionResult {
	return &ExecutionResult{
		Success:  false,
		Stderr:   msg,
		ExitCode: 1,
		Error:    msg,
	}
}
