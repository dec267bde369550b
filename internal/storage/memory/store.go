// Package memory is a process-local KeyValueStore.
package memory

import (
	"context"
	"sync"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

var _ model.KeyValueStore = (*Store)(nil)

// Store keeps values in a map.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value for key or model.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", model.ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
