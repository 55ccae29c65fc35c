package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/toolpipe"
	"github.com/fwojciec/toolpipe/adapter"
	"github.com/fwojciec/toolpipe/builtin"
	"github.com/fwojciec/toolpipe/cache"
	"github.com/fwojciec/toolpipe/mock"
	"github.com/fwojciec/toolpipe/pipeline"
	"github.com/fwojciec/toolpipe/registry"
)

// newComposer wires the builtin executor and registry over a mock sandbox.
func newComposer(t *testing.T, fs *mock.FileSystem, opts ...pipeline.Option) *pipeline.Composer {
	t.Helper()
	exec := builtin.NewExecutor(fs)
	reg, err := registry.New(exec.Manifests())
	require.NoError(t, err)
	return pipeline.New(reg, exec, opts...)
}

func steps(s ...toolpipe.PipelineStep) toolpipe.PipelineRequest {
	return toolpipe.PipelineRequest{Commands: s}
}

func TestPipelineShortCircuit(t *testing.T) {
	t.Parallel()

	t.Run("first failing step halts the chain", func(t *testing.T) {
		t.Parallel()
		c := newComposer(t, mock.NewFileSystem())

		res, err := c.Run(context.Background(), steps(
			toolpipe.PipelineStep{Tool: "cat", Args: toolpipe.ExecutionArgs{"file": "missing.txt"}},
			toolpipe.PipelineStep{Tool: "grep", Args: toolpipe.ExecutionArgs{"pattern": "x"}},
		))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "missing.txt")
		assert.Contains(t, res.Error, "cat")
		assert.Equal(t, 1, res.CommandsExecuted)
		assert.Equal(t, toolpipe.KindExecution, res.ErrorKind)
	})

	t.Run("failure error carries the tool's own diagnostic verbatim", func(t *testing.T) {
		t.Parallel()
		c := newComposer(t, mock.NewFileSystem())

		res, err := c.Run(context.Background(), steps(
			toolpipe.PipelineStep{Tool: "grep", Args: toolpipe.ExecutionArgs{"pattern": "("}},
		))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "invalid regex pattern")
	})

	t.Run("unknown tool fails as validation", func(t *testing.T) {
		t.Parallel()
		c := newComposer(t, mock.NewFileSystem())

		res, err := c.Run(context.Background(), steps(toolpipe.PipelineStep{Tool: "frobnicate"}))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, toolpipe.KindValidation, res.ErrorKind)
		assert.Equal(t, 1, res.CommandsExecuted)
	})

	t.Run("empty pipeline is a boundary error, not a no-op success", func(t *testing.T) {
		t.Parallel()
		c := newComposer(t, mock.NewFileSystem())
		_, err := c.Run(context.Background(), toolpipe.PipelineRequest{})
		assert.ErrorIs(t, err, toolpipe.ErrValidation)
	})
}

func TestPipelineComposition(t *testing.T) {
	t.Parallel()

	t.Run("filter sort dedup yields exactly the expected lines", func(t *testing.T) {
		t.Parallel()
		fs := mock.NewFileSystem()
		require.NoError(t, fs.WriteFile("fruit.txt",
			[]byte("banana\napple\ncherry\napple\ndate\napricot\n")))
		c := newComposer(t, fs)

		res, err := c.Run(context.Background(), steps(
			toolpipe.PipelineStep{Tool: "cat", Args: toolpipe.ExecutionArgs{"file": "fruit.txt"}},
			toolpipe.PipelineStep{Tool: "grep", Args: toolpipe.ExecutionArgs{"pattern": "^a"}},
			toolpipe.PipelineStep{Tool: "sort"},
			toolpipe.PipelineStep{Tool: "uniq"},
		))
		require.NoError(t, err)
		require.True(t, res.Success, "pipeline error: %s", res.Error)
		assert.Equal(t, "apple\napricot\n", res.Output)
		assert.Equal(t, 4, res.CommandsExecuted)
	})

	t.Run("debug captures every intermediate result", func(t *testing.T) {
		t.Parallel()
		fs := mock.NewFileSystem()
		require.NoError(t, fs.WriteFile("in.txt", []byte("b\na\n")))
		c := newComposer(t, fs)

		req := steps(
			toolpipe.PipelineStep{Tool: "cat", Args: toolpipe.ExecutionArgs{"file": "in.txt"}},
			toolpipe.PipelineStep{Tool: "sort"},
		)
		req.Debug = true

		res, err := c.Run(context.Background(), req)
		require.NoError(t, err)
		require.True(t, res.Success)
		require.Len(t, res.IntermediateResults, 2)
		assert.Equal(t, "b\na\n", res.IntermediateResults[0].Stdout)
		assert.Equal(t, "a\nb\n", res.IntermediateResults[1].Stdout)
	})

	t.Run("non-debug runs capture nothing", func(t *testing.T) {
		t.Parallel()
		fs := mock.NewFileSystem()
		require.NoError(t, fs.WriteFile("in.txt", []byte("x\n")))
		c := newComposer(t, fs)

		res, err := c.Run(context.Background(), steps(
			toolpipe.PipelineStep{Tool: "cat", Args: toolpipe.ExecutionArgs{"file": "in.txt"}},
		))
		require.NoError(t, err)
		assert.Nil(t, res.IntermediateResults)
	})

	t.Run("binary fidelity survives threading through an adapter", func(t *testing.T) {
		t.Parallel()
		payload := []byte{0x00, 0xFF, 0x80, 0x7F, 0x0A}
		fs := mock.NewFileSystem()
		require.NoError(t, fs.WriteFile("blob.bin", payload))

		exec := builtin.NewExecutor(fs)
		echo := adapter.NewTranscoder(
			passthroughEngine{},
			&mock.BinarySource{Binaries: map[string][]byte{"transcode": []byte("lib")}},
		)

		manifests := append(exec.Manifests(), adapter.TranscodeManifest())
		reg, err := registry.New(manifests)
		require.NoError(t, err)

		c := pipeline.New(reg, resolverWith(exec, "transcode", echo))

		res, runErr := c.Run(context.Background(), steps(
			toolpipe.PipelineStep{Tool: "cat", Args: toolpipe.ExecutionArgs{"file": "blob.bin"}},
			toolpipe.PipelineStep{Tool: "transcode", Args: toolpipe.ExecutionArgs{"format": "raw"}},
			toolpipe.PipelineStep{Tool: "write", Args: toolpipe.ExecutionArgs{"path": "copy.bin"}},
		))
		require.NoError(t, runErr)
		require.True(t, res.Success, "pipeline error: %s", res.Error)
		assert.Equal(t, payload, fs.Files["copy.bin"])
	})

	t.Run("invalid arguments fail before any execution", func(t *testing.T) {
		t.Parallel()
		fs := mock.NewFileSystem()
		c := newComposer(t, fs)

		res, err := c.Run(context.Background(), steps(
			toolpipe.PipelineStep{Tool: "grep", Args: toolpipe.ExecutionArgs{"pattern": 12.0}},
		))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, toolpipe.KindValidation, res.ErrorKind)
	})
}

func TestPermissionGate(t *testing.T) {
	t.Parallel()

	t.Run("denial aborts the step with a permission kind", func(t *testing.T) {
		t.Parallel()
		fs := mock.NewFileSystem()
		require.NoError(t, fs.WriteFile("secret.txt", []byte("s\n")))

		deny := func(_ context.Context, toolName string, _ toolpipe.ExecutionArgs) (bool, error) {
			return toolName != "cat", nil
		}
		c := newComposer(t, fs, pipeline.WithPermission(deny))

		res, err := c.Run(context.Background(), steps(
			toolpipe.PipelineStep{Tool: "cat", Args: toolpipe.ExecutionArgs{"file": "secret.txt"}},
			toolpipe.PipelineStep{Tool: "wc"},
		))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, toolpipe.KindPermission, res.ErrorKind)
		assert.Contains(t, res.Error, "permission denied")
		assert.Equal(t, 1, res.CommandsExecuted)
	})

	t.Run("tools without file access bypass the gate", func(t *testing.T) {
		t.Parallel()
		denyAll := func(context.Context, string, toolpipe.ExecutionArgs) (bool, error) {
			return false, nil
		}
		c := newComposer(t, mock.NewFileSystem(), pipeline.WithPermission(denyAll))

		res, err := c.Run(context.Background(), steps(toolpipe.PipelineStep{Tool: "wc"}))
		require.NoError(t, err)
		assert.True(t, res.Success)
	})
}

func TestPipelineCancellation(t *testing.T) {
	t.Parallel()

	c := newComposer(t, mock.NewFileSystem())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := c.Run(ctx, steps(toolpipe.PipelineStep{Tool: "wc"}))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, toolpipe.KindCanceled, res.ErrorKind)
}

func TestPipelineSummarization(t *testing.T) {
	t.Parallel()

	fs := mock.NewFileSystem()
	big := strings.Repeat("line of filler text for the summarizer\n", 500)
	require.NoError(t, fs.WriteFile("big.txt", []byte(big)))

	store := cache.New()
	c := newComposer(t, fs, pipeline.WithCache(store))

	res, err := c.Run(context.Background(), steps(
		toolpipe.PipelineStep{Tool: "cat", Args: toolpipe.ExecutionArgs{"file": "big.txt"}},
	))
	require.NoError(t, err)
	require.True(t, res.Success)

	// The model-facing output is the compact summary, not the raw content.
	assert.Less(t, len(res.Output), len(big))
	assert.Contains(t, res.Output, "cached output")
	assert.Equal(t, 1, store.Len())
}

// passthroughEngine echoes its input payload.
type passthroughEngine struct{}

func (passthroughEngine) Init(context.Context, []byte) error { return nil }
func (passthroughEngine) Process(_ context.Context, input []byte, _ []string) ([]byte, error) {
	return input, nil
}

// resolverWith layers extra named runners over a base resolver.
func resolverWith(base pipeline.Resolver, name string, r toolpipe.Runner) pipeline.Resolver {
	return resolverFunc(func(n string) (toolpipe.Runner, bool) {
		if n == name {
			return r, true
		}
		return base.Resolve(n)
	})
}

type resolverFunc func(name string) (toolpipe.Runner, bool)

func (f resolverFunc) Resolve(name string) (toolpipe.Runner, bool) { return f(name) }
