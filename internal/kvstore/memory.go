package kvstore

import (
	"context"
	"sync"
)

// MemorySubstrate keeps entries in a map. It is process-local and lost on exit.
type MemorySubstrate struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemorySubstrate creates an empty MemorySubstrate.
func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{entries: make(map[string]string)}
}

func (m *MemorySubstrate) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemorySubstrate) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemorySubstrate) MultiSet(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

func (m *MemorySubstrate) MultiRemove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *MemorySubstrate) Update(_ context.Context, key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.entries[key]
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	m.entries[key] = next
	return nil
}

func (m *MemorySubstrate) Close() error { return nil }
