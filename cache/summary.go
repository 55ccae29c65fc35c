package cache

import (
	"fmt"
	"path/filepath"
	"strings"

	units "github.com/docker/go-units"
	runewidth "github.com/mattn/go-runewidth"
)

// SummarizeThreshold is the content size above which callers should store
// the full output and forward only the summary to the model.
const SummarizeThreshold = 4 * 1024

// previewWidth bounds each preview line's display width.
const previewWidth = 120

// fileTypes maps extensions to a coarse content-type classification.
var fileTypes = map[string]string{
	".txt":  "text",
	".md":   "markdown",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".csv":  "csv",
	".html": "html",
	".xml":  "xml",
	".go":   "source",
	".js":   "source",
	".ts":   "source",
	".py":   "source",
	".png":  "image",
	".jpg":  "image",
	".jpeg": "image",
	".gif":  "image",
	".webp": "image",
	".mp4":  "video",
	".webm": "video",
	".mp3":  "audio",
	".wav":  "audio",
	".pdf":  "document",
}

// ClassifyPath returns a coarse content type from a path's extension.
func ClassifyPath(path string) string {
	if t, ok := fileTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return "unknown"
}

// StoreAndSummarize stores the full content and returns the stored entry
// plus the compact summary to forward to the model. Missing metadata fields
// are derived from the content.
func (s *Store) StoreAndSummarize(toolName, content string, meta Metadata) (*CachedResult, string) {
	if meta.ByteSize == 0 {
		meta.ByteSize = len(content)
	}
	if meta.LineCount == 0 {
		meta.LineCount = len(splitLines(content))
	}
	if meta.FileType == "" && meta.Path != "" {
		meta.FileType = ClassifyPath(meta.Path)
	}

	entry := s.Put(toolName, content, meta)
	return entry, Summarize(entry)
}

// Summarize renders the compact summary for a cached entry: classification,
// line count, human-readable size, and a bounded sanitized preview.
func Summarize(entry *CachedResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[cached output %s]", entry.ID)
	fmt.Fprintf(&b, " tool=%s", entry.ToolName)
	if entry.Metadata.Path != "" {
		fmt.Fprintf(&b, " path=%s", entry.Metadata.Path)
	}
	if entry.Metadata.FileType != "" && entry.Metadata.FileType != "unknown" {
		fmt.Fprintf(&b, " type=%s", entry.Metadata.FileType)
	}
	fmt.Fprintf(&b, " lines=%d size=%s\n", entry.Metadata.LineCount,
		units.HumanSize(float64(entry.Metadata.ByteSize)))

	preview := TruncateHead(Sanitize(entry.FullContent), DefaultPreviewLines, DefaultPreviewBytes)
	if preview.Content != "" {
		b.WriteString("preview:\n")
		for _, line := range splitLines(preview.Content) {
			b.WriteString(runewidth.Truncate(line, previewWidth, "…"))
			b.WriteByte('\n')
		}
	}
	if preview.Truncated {
		fmt.Fprintf(&b, "… %d of %d lines shown; full output available under the id above\n",
			preview.OutputLines, preview.TotalLines)
	}

	return b.String()
}
