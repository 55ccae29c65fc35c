package toolpipe

import "fmt"

// MaxPipelineSteps bounds the length of a pipeline chain. The pipeline is a
// flat, sequential chain; anything longer is a validation error.
const MaxPipelineSteps = 16

// PipelineStep names one tool invocation in a chain.
type PipelineStep struct {
	Tool string        `json:"tool"`
	Args ExecutionArgs `json:"args,omitempty"`
}

// PipelineRequest is an ordered chain of tool invocations where each step's
// output feeds the next step's input. Debug requests additionally capture
// every intermediate ExecutionResult.
type PipelineRequest struct {
	Commands []PipelineStep `json:"commands"`
	Debug    bool           `json:"debug,omitempty"`
}

// Validate checks boundary constraints on the request. An empty chain is an
// error, never a silent no-op success.
func (r PipelineRequest) Validate() error {
	if len(r.Commands) == 0 {
		return fmt.Errorf("pipeline has no commands: %w", ErrValidation)
	}
	if len(r.Commands) > MaxPipelineSteps {
		return fmt.Errorf("pipeline has %d commands, maximum is %d: %w",
			len(r.Commands), MaxPipelineSteps, ErrValidation)
	}
	for i, step := range r.Commands {
		if step.Tool == "" {
			return fmt.Errorf("pipeline command %d has no tool name: %w", i, ErrValidation)
		}
	}
	return nil
}

// ErrorKind classifies a pipeline failure so callers can react precisely:
// re-prompt on permission denials, fix input on validation errors.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindExecution  ErrorKind = "execution"
	KindPermission ErrorKind = "permission"
	KindCanceled   ErrorKind = "canceled"
)

// PipelineResult is the outcome of a pipeline run. Error identifies the
// failing tool by name and carries that tool's own diagnostic verbatim.
// CommandsExecuted counts steps actually attempted, including a failing one.
type PipelineResult struct {
	Success             bool               `json:"success"`
	Output              string             `json:"output,omitempty"`
	Error               string             `json:"error,omitempty"`
	ErrorKind           ErrorKind          `json:"error_kind,omitempty"`
	CommandsExecuted    int                `json:"commands_executed"`
	IntermediateResults []*ExecutionResult `json:"intermediate_results,omitempty"`
}
