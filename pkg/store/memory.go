package store

import (
	"context"
	"sync"
)

// Memory is a thread-safe in-memory MockStore.
type Memory struct {
	mu    sync.RWMutex
	mocks map[string]string
}

// NewMemory creates a Memory store holding a copy of initial.
func NewMemory(initial map[string]string) *Memory {
	m := &Memory{mocks: make(map[string]string, len(initial))}
	for k, v := range initial {
		m.mocks[k] = v
	}
	return m
}

// Get retrieves the JSON text for signature.
func (m *Memory) Get(_ context.Context, signature string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.mocks[signature]
	if !ok {
		return "", ErrNotFound
	}
	return text, nil
}

// All returns a copy of every entry.
func (m *Memory) All(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.mocks))
	for k, v := range m.mocks {
		out[k] = v
	}
	return out, nil
}

// Put stores or replaces the JSON text for signature.
func (m *Memory) Put(_ context.Context, signature, json string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mocks[signature] = json
	return nil
}

// Remove deletes signature. Returns true if it existed.
func (m *Memory) Remove(_ context.Context, signature string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.mocks[signature]; !ok {
		return false, nil
	}
	delete(m.mocks, signature)
	return true, nil
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.mocks)
}

// Ensure Memory implements MockStore.
var _ MockStore = (*Memory)(nil)
