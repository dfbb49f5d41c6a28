package store

import (
	"context"
	"sync"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store].
// It is suitable for tests and local experiments; state is lost on restart.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]Attributes
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{
		sessions: make(map[string]Attributes),
	}
}

// LoadAll implements [Store.LoadAll]. The returned map is a copy; mutating
// it does not affect the stored state until SaveAll.
func (s *MemStore) LoadAll(_ context.Context, sessionID string) (Attributes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attrs, ok := s.sessions[sessionID]
	if !ok {
		return NewAttributes(), nil
	}
	return attrs.Clone(), nil
}

// SaveAll implements [Store.SaveAll].
func (s *MemStore) SaveAll(_ context.Context, sessionID string, attrs Attributes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions == nil {
		s.sessions = make(map[string]Attributes)
	}
	s.sessions[sessionID] = attrs.Clone()
	return nil
}
