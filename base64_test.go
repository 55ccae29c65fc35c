package toolpipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/toolpipe"
)

func TestBase64RoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("round-trips all byte values at every length up to 256", func(t *testing.T) {
		t.Parallel()
		for length := 0; length <= 256; length++ {
			data := make([]byte, length)
			for i := range data {
				data[i] = byte((i + length) % 256)
			}
			decoded, err := toolpipe.DecodeBase64(toolpipe.EncodeBase64(data))
			require.NoError(t, err)
			assert.Equal(t, data, decoded, "length %d", length)
		}
	})

	t.Run("rejects non-alphabet characters", func(t *testing.T) {
		t.Parallel()
		_, err := toolpipe.DecodeBase64("abc!def=")
		require.Error(t, err)
		assert.ErrorIs(t, err, toolpipe.ErrInvalidBase64)
	})

	t.Run("rejects incorrect padding", func(t *testing.T) {
		t.Parallel()
		_, err := toolpipe.DecodeBase64("QUJD=")
		require.Error(t, err)
		assert.ErrorIs(t, err, toolpipe.ErrInvalidBase64)
	})

	t.Run("decodes empty string to empty bytes", func(t *testing.T) {
		t.Parallel()
		decoded, err := toolpipe.DecodeBase64("")
		require.NoError(t, err)
		assert.Empty(t, decoded)
	})
}
