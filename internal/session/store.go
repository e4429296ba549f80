// Package session holds the observed authentication state derived from the
// identity provider's change stream.
package session

import (
	"sync"

	"signally/internal/identity"
)

// State is the pair of observed flags. Three reachable shapes:
// uninitialized (false, false), unauthenticated (true, false) and
// authenticated (true, true).
type State struct {
	IsInitialized   bool
	IsAuthenticated bool
}

// Store tracks the identity provider's change notifications. It carries no
// retry logic: if the provider's stream dies, the last known flags stand and
// reconnection is the provider's responsibility.
type Store struct {
	sess identity.Session

	mu       sync.Mutex
	state    State
	tracking bool
	cancel   func()
	subs     map[int]func(State)
	nextSub  int
}

func New(sess identity.Session) *Store {
	return &Store{sess: sess, subs: map[int]func(State){}}
}

// BeginTracking starts the one underlying provider subscription. Idempotent:
// repeat calls never open a second subscription.
func (s *Store) BeginTracking() {
	s.mu.Lock()
	if s.tracking {
		s.mu.Unlock()
		return
	}
	s.tracking = true
	s.mu.Unlock()

	s.cancelSet(s.sess.OnChange(func(id *identity.Identity) {
		s.apply(id)
	}))
}

func (s *Store) cancelSet(cancel func()) {
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
}

func (s *Store) apply(id *identity.Identity) {
	s.mu.Lock()
	s.state = State{IsInitialized: true, IsAuthenticated: id != nil}
	state := s.state
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// State returns the current flags.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnChange registers a listener for flag transitions.
func (s *Store) OnChange(fn func(State)) (cancel func()) {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, key)
		s.mu.Unlock()
	}
}

// Close releases the provider subscription.
func (s *Store) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.tracking = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
