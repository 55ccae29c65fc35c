package cache_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/toolpipe/cache"
)

func TestClassifyPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text", cache.ClassifyPath("notes.txt"))
	assert.Equal(t, "image", cache.ClassifyPath("photos/cat.JPG"))
	assert.Equal(t, "video", cache.ClassifyPath("clip.webm"))
	assert.Equal(t, "source", cache.ClassifyPath("main.go"))
	assert.Equal(t, "unknown", cache.ClassifyPath("archive.tar.zst"))
	assert.Equal(t, "unknown", cache.ClassifyPath("noext"))
}

func TestStoreAndSummarize(t *testing.T) {
	t.Parallel()

	t.Run("summary carries id, metadata, and a preview", func(t *testing.T) {
		t.Parallel()
		s := cache.New()
		content := "first line\nsecond line\nthird line\n"

		entry, summary := s.StoreAndSummarize("cat", content, cache.Metadata{Path: "notes.txt"})
		require.NotEmpty(t, entry.ID)

		assert.Contains(t, summary, entry.ID)
		assert.Contains(t, summary, "tool=cat")
		assert.Contains(t, summary, "path=notes.txt")
		assert.Contains(t, summary, "type=text")
		assert.Contains(t, summary, "lines=3")
		assert.Contains(t, summary, "preview:")
		assert.Contains(t, summary, "first line")

		got, err := s.Get(entry.ID)
		require.NoError(t, err)
		assert.Equal(t, content, got.FullContent)
	})

	t.Run("derives byte and line counts from content", func(t *testing.T) {
		t.Parallel()
		s := cache.New()
		entry, _ := s.StoreAndSummarize("grep", "a\nb\n", cache.Metadata{})
		assert.Equal(t, 4, entry.Metadata.ByteSize)
		assert.Equal(t, 2, entry.Metadata.LineCount)
	})

	t.Run("long content gets a truncation footer", func(t *testing.T) {
		t.Parallel()
		s := cache.New()
		content := strings.Repeat("a filler line\n", 200)

		_, summary := s.StoreAndSummarize("cat", content, cache.Metadata{})
		assert.Contains(t, summary, "lines shown")
		assert.Less(t, len(summary), len(content))
	})

	t.Run("preview lines are width-bounded", func(t *testing.T) {
		t.Parallel()
		s := cache.New()
		content := strings.Repeat("w", 500) + "\n"

		_, summary := s.StoreAndSummarize("cat", content, cache.Metadata{})
		for line := range strings.Lines(summary) {
			assert.LessOrEqual(t, len(strings.TrimSuffix(line, "\n")), 200)
		}
		assert.Contains(t, summary, "…")
	})

	t.Run("ansi noise never reaches the preview", func(t *testing.T) {
		t.Parallel()
		s := cache.New()
		_, summary := s.StoreAndSummarize("cat", "\x1b[32mgreen\x1b[0m\n", cache.Metadata{})
		assert.NotContains(t, summary, "\x1b")
		assert.Contains(t, summary, "green")
	})
}
