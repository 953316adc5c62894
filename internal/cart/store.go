package cart

import (
	"sync"

	"github.com/google/uuid"
)

// StateStore owns one cart State per authenticated user. States are created
// on first use and released on logout; nothing lives at package scope.
type StateStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]State
}

// NewStateStore builds an empty session-scoped state store.
func NewStateStore() *StateStore {
	return &StateStore{states: make(map[uuid.UUID]State)}
}

// Current returns the user's state, constructing an empty one on first use.
func (s *StateStore) Current(userID uuid.UUID) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID]
}

// Dispatch reduces one action into the user's state and returns the result.
func (s *StateStore) Dispatch(userID uuid.UUID, action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Reduce(s.states[userID], action)
	s.states[userID] = next
	return next
}

// Replace swaps in a fully rebuilt state, as the load pass does.
func (s *StateStore) Replace(userID uuid.UUID, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

// Release drops the user's state. Called on logout.
func (s *StateStore) Release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}
