// Package state contains a minimal observable value container: a
// current-value getter plus subscribe with an unsubscribe handle. The sync
// layer's job ends at producing values; binding them to UI is the caller's
// concern.
package state

import (
	"sync"
)

// Store holds a single value of type T.
type Store[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   map[int]func(T)
}

// NewStore creates a store seeded with v.
func NewStore[T any](v T) *Store[T] {
	return &Store[T]{
		value: v,
		subs:  make(map[int]func(T)),
	}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.value
}

// Set replaces the current value and notifies subscribers synchronously in
// registration order.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := make([]func(T), 0, len(s.subs))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn and returns an unsubscribe function. The current
// value is replayed to fn immediately.
func (s *Store[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	v := s.value
	s.mu.Unlock()

	fn(v)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
