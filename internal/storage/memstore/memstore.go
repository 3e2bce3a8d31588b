// Package memstore provides a mutex-guarded in-memory storage.Store
// with the same Update semantics as the Redis-backed store.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/m3rciful/quizbot/internal/storage"
)

type entry struct {
	value    string
	deadline time.Time
}

// Store keeps values in process memory. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry

	// now is overridable in tests.
	now func() time.Time
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) get(key string) (entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return entry{}, false
	}
	if !e.deadline.IsZero() && s.now().After(e.deadline) {
		delete(s.entries, key)
		return entry{}, false
	}
	return e, true
}

func (s *Store) put(key, value string, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.deadline = s.now().Add(ttl)
	}
	s.entries[key] = e
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(key)
	if !ok {
		return "", storage.ErrNotFound
	}
	return e.value, nil
}

// Set stores the value under key.
func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, value, ttl)
	return nil
}

// SetNX stores the value only if the key is absent.
func (s *Store) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.get(key); ok {
		return false, nil
	}
	s.put(key, value, ttl)
	return true, nil
}

// Update atomically transforms the value under key while holding the store lock.
func (s *Store) Update(_ context.Context, key string, ttl time.Duration, fn func(current string) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(key)
	if !ok {
		return storage.ErrNotFound
	}
	next, err := fn(e.value)
	if err != nil {
		return err
	}
	s.put(key, next, ttl)
	return nil
}

// Delete removes the key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
