package toolpipe

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a manifest, argument set, or pipeline request
	// failed validation before any execution side effect occurred.
	ErrValidation = errors.New("validation error")

	// ErrInvalidBase64 indicates a binary argument was not valid standard
	// padded base64. Wrapped by ErrValidation-classified errors so callers
	// can distinguish user-input mistakes from tool bugs.
	ErrInvalidBase64 = errors.New("invalid base64")

	// ErrToolNotFound indicates the requested tool does not exist.
	ErrToolNotFound = errors.New("tool not found")

	// ErrPermission indicates the permission gate denied a file-touching tool.
	ErrPermission = errors.New("permission denied")

	// ErrCanceled indicates the caller's context was canceled mid-step.
	ErrCanceled = errors.New("execution canceled")

	// ErrNotFound indicates a cache or store lookup missed.
	ErrNotFound = errors.New("not found")
)
