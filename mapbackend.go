package recall

import (
	"context"
	"sync"
)

// MapBackend is an in-process Backend over a plain map. Values are held
// as-is, so a recall returns exactly what was remembered. Nothing survives
// the process.
type MapBackend struct {
	mu   sync.RWMutex
	data map[string]any
}

var _ Backend = (*MapBackend)(nil)

// NewMapBackend returns an empty MapBackend.
func NewMapBackend() *MapBackend {
	return &MapBackend{data: make(map[string]any)}
}

func (m *MapBackend) Get(_ context.Context, key string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MapBackend) Set(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MapBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MapBackend) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}
