package audittrail

import (
	"context"
	"fmt"
	"sync"

	"offramp/pkg/platform/sentinel"
)

// InMemoryStore holds the trail in memory. Used by tests and simulation
// mode.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *InMemoryStore) LoadAll(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record{}, s.records...), nil
}

func (s *InMemoryStore) Rename(_ context.Context, user, renamed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].User == user {
			s.records[i].User = renamed
			return nil
		}
	}
	return fmt.Errorf("rename audit record %s: %w", user, sentinel.ErrNotFound)
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, user, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].User == user {
			s.records[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("update audit record %s: %w", user, sentinel.ErrNotFound)
}
