// Package trackedset persists the engine's record of identities already past
// a phase. The set is append-only during normal operation; the only removal
// path is verification eviction, which re-opens the identity for retry.
package trackedset

import (
	"context"

	"offramp/pkg/domain"
)

// Set is an ordered, deduplicated collection of principal names. Insertion
// order is preserved for diagnostics; correctness only depends on
// membership.
type Set struct {
	order   []domain.PrincipalName
	members map[domain.PrincipalName]struct{}
}

// NewSet builds a set from names, dropping duplicates and blanks.
func NewSet(names ...domain.PrincipalName) *Set {
	s := &Set{members: make(map[domain.PrincipalName]struct{}, len(names))}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts a name. Returns false if it was already present or blank.
func (s *Set) Add(name domain.PrincipalName) bool {
	if name.IsNil() {
		return false
	}
	if _, ok := s.members[name]; ok {
		return false
	}
	s.members[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

// Remove evicts a name. Returns false if it was not present.
func (s *Set) Remove(name domain.PrincipalName) bool {
	if _, ok := s.members[name]; !ok {
		return false
	}
	delete(s.members, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports membership.
func (s *Set) Contains(name domain.PrincipalName) bool {
	_, ok := s.members[name]
	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.order)
}

// Names returns the members in insertion order.
func (s *Set) Names() []domain.PrincipalName {
	return append([]domain.PrincipalName{}, s.order...)
}

// Delta returns the identities from candidates that are not in the set,
// in candidate order, keyed on principal name. Identities without a
// resolvable principal name are returned separately so the caller can count
// and log them rather than silently dropping them.
func (s *Set) Delta(candidates []domain.Identity) (delta []domain.Identity, unresolvable []domain.Identity) {
	seen := make(map[domain.PrincipalName]struct{})
	for _, c := range candidates {
		if c.PrincipalName.IsNil() {
			unresolvable = append(unresolvable, c)
			continue
		}
		if s.Contains(c.PrincipalName) {
			continue
		}
		if _, dup := seen[c.PrincipalName]; dup {
			continue
		}
		seen[c.PrincipalName] = struct{}{}
		delta = append(delta, c)
	}
	return delta, unresolvable
}

// Store persists a Set as one document with read-modify-write-whole-document
// semantics. Single writer assumed; the runner lock upholds that.
type Store interface {
	// Load returns the persisted set. An absent document is an empty set.
	Load(ctx context.Context) (*Set, error)
	// Save replaces the document with the given set.
	Save(ctx context.Context, set *Set) error
}
