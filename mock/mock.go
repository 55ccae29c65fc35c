// Package mock provides test doubles for the toolpipe contracts. Set the
// relevant Fn field before use; FileSystem additionally offers a map-backed
// default so simple tests need no closures.
package mock

import (
	"context"
	"sort"

	"github.com/fwojciec/toolpipe"
)

// Interface compliance checks.
var (
	_ toolpipe.Runner         = (*Runner)(nil)
	_ toolpipe.ManifestSource = (*ManifestSource)(nil)
	_ toolpipe.BinarySource   = (*BinarySource)(nil)
	_ toolpipe.FileSystem     = (*FileSystem)(nil)
)

// Runner is a test double for toolpipe.Runner.
type Runner struct {
	RunFn func(ctx context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error)
}

// Run delegates to RunFn.
func (r *Runner) Run(ctx context.Context, inv toolpipe.Invocation) (*toolpipe.ExecutionResult, error) {
	return r.RunFn(ctx, inv)
}

// ManifestSource is a test double for toolpipe.ManifestSource backed by a
// map, with an optional override.
type ManifestSource struct {
	Manifests     map[string]*toolpipe.ToolManifest
	GetManifestFn func(name string) (*toolpipe.ToolManifest, error)
}

// GetManifest delegates to GetManifestFn when set, otherwise serves the map.
func (s *ManifestSource) GetManifest(name string) (*toolpipe.ToolManifest, error) {
	if s.GetManifestFn != nil {
		return s.GetManifestFn(name)
	}
	if m, ok := s.Manifests[name]; ok {
		return m, nil
	}
	return nil, toolpipe.ErrToolNotFound
}

// BinarySource is a test double for toolpipe.BinarySource.
type BinarySource struct {
	Binaries    map[string][]byte
	GetBinaryFn func(name string) ([]byte, error)
}

// GetBinary delegates to GetBinaryFn when set, otherwise serves the map.
func (s *BinarySource) GetBinary(name string) ([]byte, error) {
	if s.GetBinaryFn != nil {
		return s.GetBinaryFn(name)
	}
	if b, ok := s.Binaries[name]; ok {
		return b, nil
	}
	return nil, toolpipe.ErrNotFound
}

// FileSystem is a map-backed test double for the sandboxed file system.
// Fn fields override individual operations.
type FileSystem struct {
	Files map[string][]byte

	ReadFileFn  func(path string) ([]byte, error)
	WriteFileFn func(path string, data []byte) error
	ListFilesFn func() ([]string, error)
	RenameFn    func(oldPath, newPath string) error
}

// NewFileSystem creates an empty map-backed FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{Files: make(map[string][]byte)}
}

// ReadFile serves from the map unless overridden.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	if f.ReadFileFn != nil {
		return f.ReadFileFn(path)
	}
	if data, ok := f.Files[path]; ok {
		return append([]byte(nil), data...), nil
	}
	return nil, toolpipe.ErrNotFound
}

// WriteFile writes to the map unless overridden.
func (f *FileSystem) WriteFile(path string, data []byte) error {
	if f.WriteFileFn != nil {
		return f.WriteFileFn(path, data)
	}
	if f.Files == nil {
		f.Files = make(map[string][]byte)
	}
	f.Files[path] = append([]byte(nil), data...)
	return nil
}

// ListFiles lists map keys sorted unless overridden.
func (f *FileSystem) ListFiles() ([]string, error) {
	if f.ListFilesFn != nil {
		return f.ListFilesFn()
	}
	names := make([]string, 0, len(f.Files))
	for name := range f.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Rename moves a map entry unless overridden.
func (f *FileSystem) Rename(oldPath, newPath string) error {
	if f.RenameFn != nil {
		return f.RenameFn(oldPath, newPath)
	}
	data, ok := f.Files[oldPath]
	if !ok {
		return toolpipe.ErrNotFound
	}
	delete(f.Files, oldPath)
	f.Files[newPath] = data
	return nil
}

// KV is a map-backed test double for the registry's key-value store.
type KV struct {
	Data map[string][]byte

	GetFn    func(key string) ([]byte, bool, error)
	SetFn    func(key string, value []byte) error
	DeleteFn func(key string) error
}

// NewKV creates an empty map-backed KV.
func NewKV() *KV {
	return &KV{Data: make(map[string][]byte)}
}

// Get serves from the map unless overridden.
func (k *KV) Get(key string) ([]byte, bool, error) {
	if k.GetFn != nil {
		return k.GetFn(key)
	}
	v, ok := k.Data[key]
	return v, ok, nil
}

// Set writes to the map unless overridden.
func (k *KV) Set(key string, value []byte) error {
	if k.SetFn != nil {
		return k.SetFn(key, value)
	}
	if k.Data == nil {
		k.Data = make(map[string][]byte)
	}
	k.Data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes from the map unless overridden.
func (k *KV) Delete(key string) error {
	if k.DeleteFn != nil {
		return k.DeleteFn(key)
	}
	delete(k.Data, key)
	return nil
}
