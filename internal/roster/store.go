// Package roster holds the in-memory activity catalog and the participant rosters.
package roster

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("already signed up")
	ErrNotRegistered    = errors.New("not registered")
)

// Store owns the activity mapping. The set of activities is fixed at construction;
// only participant rosters change afterwards.
type Store struct {
	mu         sync.RWMutex
	activities map[string]*Activity
}

// NewStore seeds a store from catalog. The catalog is copied, so the caller keeps
// ownership of its value.
func NewStore(catalog Catalog) *Store {
	s := &Store{activities: make(map[string]*Activity, len(catalog))}
	for name, a := range catalog {
		seeded := a.clone()
		seeded.Name = name
		s.activities[name] = &seeded
	}
	return s
}

// List returns a deep copy of every activity, taken under the read lock.
func (s *Store) List() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Catalog, len(s.activities))
	for name, a := range s.activities {
		out[name] = a.clone()
	}
	return out
}

// Get returns a copy of one activity.
func (s *Store) Get(name string) (Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[name]
	if !ok {
		return Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, name)
	}
	return a.clone(), nil
}

// Register appends email to the roster of the named activity. max_participants is
// informational and is not checked.
func (s *Store) Register(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, name)
	}
	if a.indexOf(email) >= 0 {
		return fmt.Errorf("%w: %s in %s", ErrAlreadySignedUp, email, name)
	}

	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes email from the roster of the named activity, keeping the order of
// the remaining participants. Activity existence is checked before membership.
func (s *Store) Unregister(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, name)
	}
	i := a.indexOf(email)
	if i < 0 {
		return fmt.Errorf("%w: %s in %s", ErrNotRegistered, email, name)
	}

	a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
	return nil
}

// Len reports the number of activities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}
