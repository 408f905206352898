package recall

import (
	"context"
	"sort"
	"sync"
)

// ShortTerm is the transient tier: a process-local map that starts empty and
// is dropped or cleared with the session. Safe for concurrent use.
type ShortTerm struct {
	mu      sync.RWMutex
	entries map[string]any
}

var _ Store = (*ShortTerm)(nil)

// NewShortTerm returns an empty short-term store.
func NewShortTerm() *ShortTerm {
	return &ShortTerm{entries: make(map[string]any)}
}

func (s *ShortTerm) Set(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *ShortTerm) Get(_ context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *ShortTerm) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Clear drops every entry.
func (s *ShortTerm) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

func (s *ShortTerm) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of entries.
func (s *ShortTerm) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
