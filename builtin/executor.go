package builtin

import (
	"context"

	"github.com/fwojciec/toolpipe"
)

// Executor dispatches pipeline steps to the built-in tool implementations.
// It is stateless apart from the injected sandboxed file system.
type Executor struct {
	fs toolpipe.FileSystem
}

// NewExecutor creates an Executor over the given sandboxed file system.
func NewExecutor(fs toolpipe.FileSystem) *Executor {
	return &Executor{fs: fs}
}

// Resolve returns the Runner for a built-in tool name. The second return is
// false for unknown names.
func (e *Executor) Resolve(name string) (toolpipe.Runner, bool) {
	var fn func(context.Context, toolpipe.Invocation) (*toolpipe.ExecutionResult, error)
	switch name {
	case "cat":
		fn = e.runCat
	case "grep":
		fn = e.runGrep
	case "sort":
		fn = e.runSort
	case "head":
		fn = e.runHead
	case "tail":
		fn = e.runTail
	case "uniq":
		fn = e.runUniq
	case "wc":
		fn = e.runWc
	case "write":
		fn = e.runWrite
	case "ls":
		fn = e.runLs
	default:
		return nil, false
	}
	return toolpipe.RunnerFunc(fn), true
}

// Manifests returns the manifests for all built-in tools, for seeding a
// registry at construction time.
func (e *Executor) Manifests() []*toolpipe.ToolManifest {
	return []*toolpipe.ToolManifest{
		CatManifest(),
		GrepManifest(),
		SortManifest(),
		HeadManifest(),
		TailManifest(),
		UniqManifest(),
		WcManifest(),
		WriteManifest(),
		LsManifest(),
	}
}
