package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store. It survives remounts
// within a process but not restarts, and doubles as a backend for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Offset
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Offset),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (Offset, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	off, ok := m.data[key]
	return off, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, off Offset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = off
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
