package cache

import "strings"

const (
	// DefaultPreviewLines and DefaultPreviewBytes bound summary previews.
	DefaultPreviewLines = 20
	DefaultPreviewBytes = 2 * 1024
)

// TruncateResult describes the outcome of head truncation.
type TruncateResult struct {
	Content          string
	Truncated        bool
	TruncatedBy      string // "lines" or "bytes"
	TotalLines       int
	TotalBytes       int
	OutputLines      int
	OutputBytes      int
	FirstLinePartial bool
}

// TruncateHead keeps the first maxLines lines or maxBytes bytes of input,
// whichever limit is hit first, collecting complete lines from the front.
// If the very first line alone exceeds maxBytes, its head is taken
// (setting FirstLinePartial).
func TruncateHead(s string, maxLines, maxBytes int) TruncateResult {
	if s == "" {
		return TruncateResult{}
	}

	hasTrailingNewline := strings.HasSuffix(s, "\n")
	lines := splitLines(s)
	totalLines := len(lines)
	totalBytes := len(s)

	if totalLines <= maxLines && totalBytes <= maxBytes {
		return TruncateResult{
			Content:     s,
			TotalLines:  totalLines,
			TotalBytes:  totalBytes,
			OutputLines: totalLines,
			OutputBytes: totalBytes,
		}
	}

	// Collect lines from the front within the byte budget. Reserve 1 byte
	// for the trailing newline if the original had one and we keep all lines.
	var collected []string
	outputBytes := 0
	truncatedBy := ""

	for i := 0; i < len(lines) && len(collected) < maxLines; i++ {
		lineBytes := len(lines[i])
		if len(collected) > 0 {
			lineBytes++ // the \n separator between lines
		}
		if outputBytes+lineBytes > maxBytes {
			truncatedBy = "bytes"
			// First line alone exceeds maxBytes: keep its head as a partial.
			if len(collected) == 0 {
				head := lines[i]
				if len(head) > maxBytes {
					head = head[:maxBytes]
				}
				return TruncateResult{
					Content:          head,
					Truncated:        true,
					TruncatedBy:      "bytes",
					TotalLines:       totalLines,
					TotalBytes:       totalBytes,
					OutputLines:      1,
					OutputBytes:      len(head),
					FirstLinePartial: true,
				}
			}
			break
		}
		collected = append(collected, lines[i])
		outputBytes += lineBytes
	}

	if truncatedBy == "" {
		truncatedBy = "lines"
	}

	content := strings.Join(collected, "\n")
	if hasTrailingNewline && len(collected) == totalLines {
		content += "\n"
	}

	return TruncateResult{
		Content:     content,
		Truncated:   true,
		TruncatedBy: truncatedBy,
		TotalLines:  totalLines,
		TotalBytes:  totalBytes,
		OutputLines: len(collected),
		OutputBytes: len(content),
	}
}

// splitLines splits s into lines, treating the final line as a line even
// without a trailing newline. A trailing newline does NOT produce an empty
// final element.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
