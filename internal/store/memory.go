package store

import (
	"sort"
	"sync"
)

// MemoryStore is an in-process KV. Nothing survives the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get implements KV.
func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements KV.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete implements KV.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys implements KV.
func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// MemoryBackend hands out MemoryStore namespaces.
type MemoryBackend struct {
	mu         sync.Mutex
	namespaces map[string]*MemoryStore
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{namespaces: make(map[string]*MemoryStore)}
}

// Namespace implements Backend.
func (b *MemoryBackend) Namespace(name string) (KV, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ns, ok := b.namespaces[name]
	if !ok {
		ns = NewMemoryStore()
		b.namespaces[name] = ns
	}
	return ns, nil
}

// Close implements Backend.
func (b *MemoryBackend) Close() error { return nil }
