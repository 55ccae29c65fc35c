// Package cache decouples full tool output from the compact summary
// surfaced to the token-constrained consumer. Full content is stored under
// a generated opaque id in a bounded store; only the summary travels back
// to the model, and the id lets a UI recover the full content for display.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/toolpipe"
)

const (
	// DefaultCapacity is the entry cap before overflow eviction.
	DefaultCapacity = 100
	// DefaultMaxAge is the age cap; older entries are dropped first.
	DefaultMaxAge = 30 * time.Minute
	// DefaultHeadroom is how far below capacity overflow eviction trims, to
	// avoid an eviction pass on every subsequent store.
	DefaultHeadroom = 10
)

// Metadata describes the cached content for summarization.
type Metadata struct {
	Path      string `json:"path,omitempty"`
	LineCount int    `json:"line_count,omitempty"`
	ByteSize  int    `json:"byte_size,omitempty"`
	FileType  string `json:"file_type,omitempty"`
}

// CachedResult is one stored tool output.
type CachedResult struct {
	ID          string    `json:"id"`
	ToolName    string    `json:"tool_name"`
	Timestamp   time.Time `json:"timestamp"`
	FullContent string    `json:"full_content"`
	Metadata    Metadata  `json:"metadata"`
}

// Store is a bounded result cache. Lookups never block and never refetch: a
// miss returns ErrNotFound and the caller decides what to do.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*CachedResult
	capacity int
	maxAge   time.Duration
	headroom int
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity overrides the entry cap.
func WithCapacity(n int) Option {
	return func(s *Store) { s.capacity = n }
}

// WithMaxAge overrides the age cap.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) { s.maxAge = d }
}

// WithHeadroom overrides the overflow eviction headroom.
func WithHeadroom(n int) Option {
	return func(s *Store) { s.headroom = n }
}

// WithClock injects a clock, for deterministic eviction tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store with the default bounds.
func New(opts ...Option) *Store {
	s := &Store{
		entries:  make(map[string]*CachedResult),
		capacity: DefaultCapacity,
		maxAge:   DefaultMaxAge,
		headroom: DefaultHeadroom,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.headroom >= s.capacity {
		s.headroom = 0
	}
	return s
}

// Put stores content under a freshly generated id and runs eviction.
func (s *Store) Put(toolName, content string, meta Metadata) *CachedResult {
	entry := &CachedResult{
		ID:          uuid.NewString(),
		ToolName:    toolName,
		Timestamp:   s.now(),
		FullContent: content,
		Metadata:    meta,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	s.evict()
	return entry
}

// Get returns the entry for id, or ErrNotFound on a miss or after eviction.
func (s *Store) Get(id string) (*CachedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, toolpipe.ErrNotFound
	}
	return entry, nil
}

// Len returns the current entry count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evict drops expired entries first; if still over capacity, the oldest
// entries go until the store is headroom below the cap. Caller holds mu.
func (s *Store) evict() {
	cutoff := s.now().Add(-s.maxAge)
	for id, entry := range s.entries {
		if entry.Timestamp.Before(cutoff) {
			delete(s.entries, id)
		}
	}

	if len(s.entries) <= s.capacity {
		return
	}

	byAge := make([]*CachedResult, 0, len(s.entries))
	for _, entry := range s.entries {
		byAge = append(byAge, entry)
	}
	sort.Slice(byAge, func(i, j int) bool {
		return byAge[i].Timestamp.Before(byAge[j].Timestamp)
	})

	target := s.capacity - s.headroom
	for _, entry := range byAge {
		if len(s.entries) <= target {
			break
		}
		delete(s.entries, entry.ID)
	}
}
