package store

import (
	"context"
	"sync"
)

// MemoryStore implements the Store interface with in-process storage,
// providing fast operations with no persistence across restarts.
//
// MemoryStore characteristics:
//   - All data in heap memory (maps for KV and lists)
//   - No persistence (data lost on restart)
//   - Thread-safe via a single sync.RWMutex
//   - Values copied on both write and read; callers can never alias
//     store-internal state
//
// Suitable for:
//   - Unit tests (every package's test suite runs against it)
//   - Embedded single-process deployments without durability needs
//
// Not suitable for:
//   - Data that must survive restarts
//   - Sharing state across processes
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	lists map[string][][]byte
}

// NewMemoryStore returns an empty, ready-to-use MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string][]byte),
		lists: make(map[string][][]byte),
	}
}

// Get returns a copy of the value at key, or ErrKeyNotFound.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return cloneBytes(v), nil
}

// MGet returns a copy of each value in keys, preserving order, with nil for
// absent keys.
func (m *MemoryStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]byte, len(keys))
	for i, k := range keys {
		if v, ok := m.data[k]; ok {
			out[i] = cloneBytes(v)
		}
	}
	return out, nil
}

// MSet stores every key in kv, overwriting any existing value.
func (m *MemoryStore) MSet(_ context.Context, kv map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range kv {
		m.data[k] = cloneBytes(v)
	}
	return nil
}

// Delete removes every key in keys. Idempotent.
func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// LPush pushes value onto the head of the list at key.
func (m *MemoryStore) LPush(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := cloneBytes(value)
	m.lists[key] = append([][]byte{v}, m.lists[key]...)
	return nil
}

// RPop pops the tail of the list at key. Returns (nil, nil) if empty.
func (m *MemoryStore) RPop(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[key]
	if len(list) == 0 {
		return nil, nil
	}

	last := list[len(list)-1]
	m.lists[key] = list[:len(list)-1]
	if len(m.lists[key]) == 0 {
		delete(m.lists, key)
	}
	return last, nil
}

// LLen returns the length of the list at key.
func (m *MemoryStore) LLen(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.lists[key])), nil
}

func cloneBytes(v []byte) []byte {
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
