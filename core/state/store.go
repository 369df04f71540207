// ABOUTME: Store owns the application state and serializes every dispatched action
// ABOUTME: Subscribers are notified after each transition with the previous and next state

package state

import (
	"sync"

	"newshub-core/core/domain"
	"newshub-core/core/interfaces"
)

// Listener observes transitions. It must not modify the states it receives.
type Listener func(prev, next State, action Action)

// Store is the single mutation path for State
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	logger    interfaces.Logger
}

// NewStore creates a store holding initial
func NewStore(initial State, logger interfaces.Logger) *Store {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	if initial.NewsByCategory == nil {
		initial.NewsByCategory = map[string][]domain.Article{}
	}
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
		logger:    logger,
	}
}

// Dispatch applies a and notifies listeners. Concurrent dispatches are applied one at a time.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.logger.Debug("State action dispatched", map[string]interface{}{
		"action": a.Type(),
	})

	for _, l := range listeners {
		l(prev, next, a)
	}
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Select reads from the current state without copying it. fn must not retain or modify what it sees.
func (s *Store) Select(fn func(State)) {
	s.mu.Lock()
	current := s.state
	s.mu.Unlock()
	fn(current)
}

// Subscribe registers l and returns a function that removes it
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
