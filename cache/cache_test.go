package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/toolpipe"
	"github.com/fwojciec/toolpipe/cache"
)

func TestStorePutGet(t *testing.T) {
	t.Parallel()

	s := cache.New()
	entry := s.Put("cat", "full content", cache.Metadata{Path: "a.txt"})
	require.NotEmpty(t, entry.ID)

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "full content", got.FullContent)
	assert.Equal(t, "cat", got.ToolName)
	assert.Equal(t, "a.txt", got.Metadata.Path)

	t.Run("distinct entries get distinct ids", func(t *testing.T) {
		other := s.Put("cat", "full content", cache.Metadata{})
		assert.NotEqual(t, entry.ID, other.ID)
	})

	t.Run("miss returns not found", func(t *testing.T) {
		_, err := s.Get("no-such-id")
		assert.ErrorIs(t, err, toolpipe.ErrNotFound)
	})
}

func TestStoreEviction(t *testing.T) {
	t.Parallel()

	t.Run("expired entries go before anything else", func(t *testing.T) {
		t.Parallel()
		now := time.Unix(1700000000, 0)
		clock := func() time.Time { return now }
		s := cache.New(cache.WithMaxAge(30*time.Minute), cache.WithClock(clock))

		old := s.Put("cat", "old", cache.Metadata{})

		now = now.Add(31 * time.Minute)
		fresh := s.Put("cat", "fresh", cache.Metadata{})

		_, err := s.Get(old.ID)
		assert.ErrorIs(t, err, toolpipe.ErrNotFound)
		_, err = s.Get(fresh.ID)
		assert.NoError(t, err)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("overflow trims oldest down to capacity minus headroom", func(t *testing.T) {
		t.Parallel()
		now := time.Unix(1700000000, 0)
		clock := func() time.Time { return now }
		s := cache.New(
			cache.WithCapacity(10),
			cache.WithHeadroom(3),
			cache.WithClock(clock),
		)

		ids := make([]string, 0, 11)
		for i := range 11 {
			now = now.Add(time.Second)
			entry := s.Put("cat", fmt.Sprintf("content %d", i), cache.Metadata{})
			ids = append(ids, entry.ID)
		}

		// 11 entries over a cap of 10 trims to 7; the four oldest are gone.
		assert.Equal(t, 7, s.Len())
		for _, id := range ids[:4] {
			_, err := s.Get(id)
			assert.ErrorIs(t, err, toolpipe.ErrNotFound)
		}
		for _, id := range ids[4:] {
			_, err := s.Get(id)
			assert.NoError(t, err)
		}
	})

	t.Run("at capacity nothing is evicted", func(t *testing.T) {
		t.Parallel()
		s := cache.New(cache.WithCapacity(5), cache.WithHeadroom(2))
		for range 5 {
			s.Put("cat", "x", cache.Metadata{})
		}
		assert.Equal(t, 5, s.Len())
	})
}
