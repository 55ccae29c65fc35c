package toolpipe

import "context"

// Invocation is a fully converted, validated tool call ready for execution.
type Invocation struct {
	Manifest *ToolManifest
	Args     ExecutionArgs // binary parameter removed
	CLI      []string      // rendered cliArgs, tool name first
	Stdin    []byte        // binary payload, or nil
}

// Runner executes a single tool invocation. Built-in tools and external
// library adapters implement the same contract, which is what lets the
// pipeline composer chain them without special-casing.
//
// Runners report tool-level failures through ExecutionResult.Success; the
// error return is reserved for infrastructure failures (context
// cancellation, resolver faults). A runner must never panic past its own
// boundary.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*ExecutionResult, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, inv Invocation) (*ExecutionResult, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, inv Invocation) (*ExecutionResult, error) {
	return f(ctx, inv)
}

// ManifestSource resolves tool manifests. Backed by the external manifest
// registry / key-value store.
type ManifestSource interface {
	GetManifest(name string) (*ToolManifest, error)
}

// BinarySource resolves cached tool library binaries (e.g. a transcoding
// engine's module) from the external key-value store.
type BinarySource interface {
	GetBinary(name string) ([]byte, error)
}

// FileSystem is the sandboxed file system collaborator. The runtime only
// sequences calls to it; sandboxing is provided elsewhere.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	ListFiles() ([]string, error)
	Rename(oldPath, newPath string) error
}

// PermissionFunc is the permission gate queried before executing any tool
// that touches the file system. Returning false aborts the step with a
// permission-flavored error, distinguishable from a tool failure.
type PermissionFunc func(ctx context.Context, toolName string, args ExecutionArgs) (bool, error)

// AllowAll is a PermissionFunc that grants every request. Useful for tests
// and trusted embedding contexts.
func AllowAll(context.Context, string, ExecutionArgs) (bool, error) { return true, nil }
