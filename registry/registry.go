// Package registry implements the manifest and binary store the runtime
// consumes. Manifests live in memory and, when a key-value store is
// injected, persist as CBOR records; cached tool library binaries persist
// the same way with a checksum guarding against corruption.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/fwojciec/toolpipe"
)

const (
	manifestPrefix = "manifest/"
	binaryPrefix   = "binary/"
)

// KV is the external key-value store collaborator. The second Get return
// reports presence, so a miss is not an error.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// binaryRecord wraps a persisted library binary with its checksum.
type binaryRecord struct {
	Name   string `cbor:"name"`
	Data   []byte `cbor:"data"`
	SHA256 string `cbor:"sha256"`
}

// Registry holds tool manifests and library binaries. It implements
// toolpipe.ManifestSource and toolpipe.BinarySource.
type Registry struct {
	mu        sync.RWMutex
	manifests map[string]*toolpipe.ToolManifest
	kv        KV
}

// Option configures a Registry.
type Option func(*Registry)

// WithKV injects the persistent key-value store. Without it the registry is
// purely in-memory.
func WithKV(kv KV) Option {
	return func(r *Registry) { r.kv = kv }
}

// New creates a Registry, optionally seeded with manifests. Seeding fails
// fast on an invalid manifest.
func New(seed []*toolpipe.ToolManifest, opts ...Option) (*Registry, error) {
	r := &Registry{manifests: make(map[string]*toolpipe.ToolManifest)}
	for _, o := range opts {
		o(r)
	}
	for _, m := range seed {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates and installs a manifest, persisting it when a KV store
// is present. Manifests are read-only after registration.
func (r *Registry) Register(m *toolpipe.ToolManifest) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.kv != nil {
		blob, err := cbor.Marshal(m)
		if err != nil {
			return fmt.Errorf("registry: encode manifest %q: %w", m.Name, err)
		}
		if err := r.kv.Set(manifestPrefix+m.Name, blob); err != nil {
			return fmt.Errorf("registry: persist manifest %q: %w", m.Name, err)
		}
	}
	r.manifests[m.Name] = m
	return nil
}

// Unregister removes a manifest, used at tool uninstall time.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.manifests[name]; !ok {
		return fmt.Errorf("registry: %q: %w", name, toolpipe.ErrToolNotFound)
	}
	delete(r.manifests, name)
	if r.kv != nil {
		if err := r.kv.Delete(manifestPrefix + name); err != nil {
			return fmt.Errorf("registry: delete manifest %q: %w", name, err)
		}
	}
	return nil
}

// GetManifest implements toolpipe.ManifestSource, falling back to the KV
// store for manifests registered by a previous process.
func (r *Registry) GetManifest(name string) (*toolpipe.ToolManifest, error) {
	r.mu.RLock()
	m, ok := r.manifests[name]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	if r.kv != nil {
		blob, found, err := r.kv.Get(manifestPrefix + name)
		if err != nil {
			return nil, fmt.Errorf("registry: load manifest %q: %w", name, err)
		}
		if found {
			var loaded toolpipe.ToolManifest
			if err := cbor.Unmarshal(blob, &loaded); err != nil {
				return nil, fmt.Errorf("registry: decode manifest %q: %w", name, err)
			}
			r.mu.Lock()
			r.manifests[name] = &loaded
			r.mu.Unlock()
			return &loaded, nil
		}
	}

	return nil, fmt.Errorf("registry: %q: %w", name, toolpipe.ErrToolNotFound)
}

// Manifests returns all registered manifests. Order is unspecified; callers
// sort as needed.
func (r *Registry) Manifests() []*toolpipe.ToolManifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*toolpipe.ToolManifest, 0, len(r.manifests))
	for _, m := range r.manifests {
		out = append(out, m)
	}
	return out
}

// PutBinary persists a tool's library binary with a checksum.
func (r *Registry) PutBinary(name string, data []byte) error {
	if r.kv == nil {
		return fmt.Errorf("registry: no key-value store configured")
	}
	sum := sha256.Sum256(data)
	blob, err := cbor.Marshal(binaryRecord{
		Name:   name,
		Data:   data,
		SHA256: hex.EncodeToString(sum[:]),
	})
	if err != nil {
		return fmt.Errorf("registry: encode binary %q: %w", name, err)
	}
	if err := r.kv.Set(binaryPrefix+name, blob); err != nil {
		return fmt.Errorf("registry: persist binary %q: %w", name, err)
	}
	return nil
}

// GetBinary implements toolpipe.BinarySource, verifying the stored checksum
// before handing bytes to an adapter.
func (r *Registry) GetBinary(name string) ([]byte, error) {
	if r.kv == nil {
		return nil, fmt.Errorf("registry: %q: %w", name, toolpipe.ErrNotFound)
	}
	blob, found, err := r.kv.Get(binaryPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("registry: load binary %q: %w", name, err)
	}
	if !found {
		return nil, fmt.Errorf("registry: %q: %w", name, toolpipe.ErrNotFound)
	}

	var rec binaryRecord
	if err := cbor.Unmarshal(blob, &rec); err != nil {
		return nil, fmt.Errorf("registry: decode binary %q: %w", name, err)
	}
	sum := sha256.Sum256(rec.Data)
	if hex.EncodeToString(sum[:]) != rec.SHA256 {
		return nil, fmt.Errorf("registry: binary %q failed checksum verification", name)
	}
	return rec.Data, nil
}
