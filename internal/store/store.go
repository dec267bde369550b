// Package store provides a generic observable container for one value with
// loading and error metadata.
package store

import (
	"context"
	"slices"
	"sync"
)

// UnknownError is recorded when a failure carries no message.
const UnknownError = "Unknown error"

// State is a point-in-time view of a store. A nil Data is the null value and an
// empty Error means no error.
type State[T any] struct {
	Data      *T
	Error     string
	IsLoading bool
}

// HasData reports whether the state holds a value.
func (s State[T]) HasData() bool {
	return s.Data != nil
}

// HasError reports whether the state holds an error.
func (s State[T]) HasError() bool {
	return s.Error != ""
}

// Reader is the read-only surface of a store.
type Reader[T any] interface {
	Data() *T
	Error() string
	IsLoading() bool
	Snapshot() State[T]
	Subscribe(fn func(State[T])) (unsubscribe func())
}

var _ Reader[string] = (*Store[string])(nil)

// Store holds a value of type T. Mutators notify subscribers synchronously,
// after the mutation and outside the store lock, with the new state, unless
// notifications are held.
type Store[T any] struct {
	mu      sync.RWMutex
	initial *T
	state   State[T]
	version uint64
	holds   int
	pending bool

	subsMu sync.Mutex
	subs   map[uint64]func(State[T])
	nextID uint64
}

// New creates a store whose data starts as, and resets to, initial.
func New[T any](initial *T) *Store[T] {
	return &Store[T]{
		initial: clone(initial),
		state:   State[T]{Data: clone(initial)},
		subs:    make(map[uint64]func(State[T])),
	}
}

// Data returns a copy of the current value, or nil.
func (s *Store[T]) Data() *T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.state.Data)
}

// Error returns the current error message, or "".
func (s *Store[T]) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Error
}

// IsLoading reports whether an operation is in flight.
func (s *Store[T]) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoading
}

// Snapshot returns a copy of the whole state.
func (s *Store[T]) Snapshot() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Version counts mutations. It changes whenever the state may have changed.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Hold defers notifications until release is called. Holds nest; the last
// release delivers a single notification with the state at that moment, and
// only if the store was mutated while held. release is safe to call more than
// once.
func (s *Store[T]) Hold() (release func()) {
	s.mu.Lock()
	s.holds++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(s.release)
	}
}

func (s *Store[T]) release() {
	s.mu.Lock()
	s.holds--
	if s.holds > 0 || !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

// SetData replaces the value and clears error and loading.
func (s *Store[T]) SetData(value *T) {
	s.update(func(st *State[T]) {
		st.Data = clone(value)
		st.Error = ""
		st.IsLoading = false
	})
}

// SetError records a failure and clears loading. The value is kept so the
// last known good data stays visible next to the error.
func (s *Store[T]) SetError(message string) {
	if message == "" {
		message = UnknownError
	}
	s.update(func(st *State[T]) {
		st.Error = message
		st.IsLoading = false
	})
}

// SetLoading toggles the in-flight flag.
func (s *Store[T]) SetLoading(loading bool) {
	s.update(func(st *State[T]) {
		st.IsLoading = loading
	})
}

// ClearError drops the error without touching data or loading.
func (s *Store[T]) ClearError() {
	s.update(func(st *State[T]) {
		st.Error = ""
	})
}

// Reset restores the construction-time value and clears error and loading.
func (s *Store[T]) Reset() {
	s.update(func(st *State[T]) {
		st.Data = clone(s.initial)
		st.Error = ""
		st.IsLoading = false
	})
}

// FetchAndSet marks the store loading, runs fetcher once and records either its
// value or its error message. Failures never escape.
func (s *Store[T]) FetchAndSet(ctx context.Context, fetcher func(ctx context.Context) (T, error)) {
	s.SetLoading(true)

	value, err := fetcher(ctx)
	if err != nil {
		s.SetError(err.Error())
		return
	}

	s.SetData(&value)
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription and is safe to call more than once.
func (s *Store[T]) Subscribe(fn func(State[T])) func() {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store[T]) update(mutate func(st *State[T])) {
	s.mu.Lock()
	mutate(&s.state)
	s.version++
	if s.holds > 0 {
		s.pending = true
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *Store[T]) notify(state State[T]) {
	s.subsMu.Lock()
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	s.subsMu.Unlock()

	// registration order
	slices.Sort(ids)
	for _, id := range ids {
		s.subsMu.Lock()
		fn, ok := s.subs[id]
		s.subsMu.Unlock()
		if !ok {
			continue
		}
		// each subscriber gets its own copy of the value
		fn(State[T]{Data: clone(state.Data), Error: state.Error, IsLoading: state.IsLoading})
	}
}

func (s *Store[T]) snapshotLocked() State[T] {
	return State[T]{
		Data:      clone(s.state.Data),
		Error:     s.state.Error,
		IsLoading: s.state.IsLoading,
	}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
