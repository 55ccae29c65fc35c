package builtin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/toolpipe"
	"github.com/fwojciec/toolpipe/builtin"
	"github.com/fwojciec/toolpipe/mock"
)

func TestHeadTail(t *testing.T) {
	t.Parallel()

	e := builtin.NewExecutor(mock.NewFileSystem())
	input := []byte("1\n2\n3\n4\n5\n")

	t.Run("head keeps the first N lines", func(t *testing.T) {
		t.Parallel()
		res := runTool(t, e, "head", toolpipe.ExecutionArgs{"lines": 2.0}, input)
		require.True(t, res.Success)
		assert.Equal(t, "1\n2\n", res.Stdout)
	})

	t.Run("tail keeps the last N lines", func(t *testing.T) {
		t.Parallel()
		res := runTool(t, e, "tail", toolpipe.ExecutionArgs{"lines": 2.0}, input)
		require.True(t, res.Success)
		assert.Equal(t, "4\n5\n", res.Stdout)
	})

	t.Run("defaults to ten lines", func(t *testing.T) {
		t.Parallel()
		res := runTool(t, e, "head", toolpipe.ExecutionArgs{}, input)
		require.True(t, res.Success)
		assert.Equal(t, string(input), res.Stdout)
	})

	t.Run("negative count fails", func(t *testing.T) {
		t.Parallel()
		res := runTool(t, e, "head", toolpipe.ExecutionArgs{"lines": -1.0}, input)
		assert.False(t, res.Success)
	})
}
