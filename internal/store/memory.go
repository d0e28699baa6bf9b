package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a map-backed BlobStore for tests and `driver: memory`
// runs. FailNextSaves arms transient Save failures so callers can
// exercise their evict-and-retry path.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	failNextSaves int
	saveCalls     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.failNextSaves > 0 {
		m.failNextSaves--
		return fmt.Errorf("memory store: save rejected")
	}
	stored := make([]byte, len(blob))
	copy(stored, blob)
	m.blobs[key] = stored
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// FailNextSaves makes the next n Save calls return an error.
func (m *MemoryStore) FailNextSaves(n int) {
	m.mu.Lock()
	m.failNextSaves = n
	m.mu.Unlock()
}

// SaveCalls returns how many times Save has been invoked.
func (m *MemoryStore) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}
