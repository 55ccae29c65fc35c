// Package vio provides the per-invocation in-memory stand-in for
// stdin/stdout/stderr. A fresh State is created for every tool invocation
// and never shared across calls, which is what prevents cross-call data
// leakage.
package vio

import (
	"sync"
	"unicode/utf8"
)

// State holds the three virtual streams for one invocation. Stdin is
// consume-from-front and non-rewindable; stdout and stderr are append-only.
// The text and binary views of stdout are two pure accessors over one owned
// buffer, so they cannot diverge.
type State struct {
	mu     sync.Mutex
	stdin  []byte
	stdout []byte
	stderr []byte
}

// NewState creates an empty State.
func NewState() *State {
	return &State{}
}

// SetStdin replaces the stdin buffer with raw bytes. A second call replaces
// the buffer; the read cursor resets to the front.
func (s *State) SetStdin(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stdin = append([]byte(nil), data...)
}

// SetStdinString replaces the stdin buffer with the UTF-8 encoding of text.
func (s *State) SetStdinString(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stdin = []byte(text)
}

// ReadStdin returns up to maxBytes from the front of the stdin buffer and
// advances the cursor. Once exhausted it returns an empty slice; it never
// blocks and never errors, mirroring a non-blocking pipe where end-of-input
// is signaled by zero-length reads.
func (s *State) ReadStdin(maxBytes int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if maxBytes <= 0 || len(s.stdin) == 0 {
		return []byte{}
	}
	n := maxBytes
	if n > len(s.stdin) {
		n = len(s.stdin)
	}
	chunk := append([]byte(nil), s.stdin[:n]...)
	s.stdin = s.stdin[n:]
	return chunk
}

// WriteStdout appends bytes to the stdout buffer. Multiple calls append in
// call order.
func (s *State) WriteStdout(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stdout = append(s.stdout, p...)
}

// WriteStdoutString appends the UTF-8 encoding of text to stdout.
func (s *State) WriteStdoutString(text string) {
	s.WriteStdout([]byte(text))
}

// WriteStderr appends bytes to the stderr buffer.
func (s *State) WriteStderr(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stderr = append(s.stderr, p...)
}

// WriteStderrString appends the UTF-8 encoding of text to stderr.
func (s *State) WriteStderrString(text string) {
	s.WriteStderr([]byte(text))
}

// Stdout returns the lossy UTF-8 text view of the accumulated stdout
// buffer, substituting U+FFFD for each invalid byte. This view exists for
// display only and must never be used to reconstruct binary payloads.
func (s *State) Stdout() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeLossy(s.stdout)
}

// StdoutBinary returns a copy of the exact accumulated stdout bytes,
// untouched by any decode/re-encode cycle. This is the only view safe to
// pass to a binary-consuming step or a file write.
func (s *State) StdoutBinary() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.stdout...)
}

// Stderr returns the lossy UTF-8 text view of the stderr buffer.
func (s *State) Stderr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeLossy(s.stderr)
}

// StderrBinary returns a copy of the exact stderr bytes.
func (s *State) StderrBinary() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.stderr...)
}

// Reset clears all three buffers, for reuse between invocations when a
// State is pooled.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stdin = nil
	s.stdout = nil
	s.stderr = nil
}

// decodeLossy decodes bytes as UTF-8, emitting one U+FFFD per invalid byte.
// Valid sequences decode exactly; only invalid bytes are replaced.
func decodeLossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb []rune
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			sb = append(sb, utf8.RuneError)
			i++
			continue
		}
		sb = append(sb, r)
		i += size
	}
	return string(sb)
}
