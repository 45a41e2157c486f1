package trackedset

import (
	"context"
	"sync"
)

// InMemoryStore keeps the tracked set in memory. Used by tests and
// simulation mode.
type InMemoryStore struct {
	mu  sync.RWMutex
	set *Set
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{set: NewSet()}
}

func (s *InMemoryStore) Load(_ context.Context) (*Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewSet(s.set.Names()...), nil
}

func (s *InMemoryStore) Save(_ context.Context, set *Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = NewSet(set.Names()...)
	return nil
}
