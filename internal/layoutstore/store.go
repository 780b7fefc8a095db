// Package layoutstore persists the last-known position and size of named
// panels. Persistence is best-effort: every failure degrades to the caller's
// default and is logged, never returned.
package layoutstore

import (
	"context"
	"sync"

	"floatview/internal/logging"
)

// Fields written by panels
const (
	FieldPosition = "position"
	FieldSize     = "size"
)

// Backend is the durable key-value capability the store sits on.
// Get reports found=false for missing keys.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store is a keyed read/write facade over a Backend. It is shared by every
// panel in the process; each panel only touches keys under its own id.
type Store struct {
	backend Backend
}

// New wraps backend. A nil backend yields a store that never persists.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Key returns the composite key for (id, field)
func Key(id, field string) string {
	return id + "/" + field
}

// Read returns the stored value for (id, field), or def when id is empty,
// the key is absent, the backend fails, or the stored bytes do not decode.
func Read[T any](ctx context.Context, s *Store, id, field string, def T) T {
	if s == nil || s.backend == nil || id == "" {
		return def
	}
	log := logging.FromContext(ctx)

	raw, found, err := s.backend.Get(ctx, Key(id, field))
	if err != nil {
		log.Warn().Err(err).Str("panel_id", id).Str("field", field).Msg("layout read failed, using default")
		return def
	}
	if !found {
		return def
	}

	var value T
	if err := unmarshal(raw, &value); err != nil {
		log.Warn().Err(err).Str("panel_id", id).Str("field", field).Msg("corrupt layout value, using default")
		return def
	}
	return value
}

// Write stores value under (id, field). No-op when id is empty.
func Write[T any](ctx context.Context, s *Store, id, field string, value T) {
	if s == nil || s.backend == nil || id == "" {
		return
	}
	log := logging.FromContext(ctx)

	raw, err := marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("panel_id", id).Str("field", field).Msg("layout value not encodable")
		return
	}
	if err := s.backend.Set(ctx, Key(id, field), raw); err != nil {
		log.Warn().Err(err).Str("panel_id", id).Str("field", field).Msg("layout write failed")
		return
	}
	log.Debug().Str("panel_id", id).Str("field", field).Msg("layout persisted")
}

// MemoryBackend keeps values in a process-local map
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

// Keys returns every stored key. Order is unspecified.
func (m *MemoryBackend) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}
