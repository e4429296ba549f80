package session

import (
	"context"
	"testing"

	"signally/internal/identity"
)

// stubSession drives the provider change stream by hand.
type stubSession struct {
	fn       func(*identity.Identity)
	attaches int
	current  *identity.Identity
}

func (s *stubSession) Current() *identity.Identity { return s.current }

func (s *stubSession) OnChange(fn func(*identity.Identity)) (cancel func()) {
	s.attaches++
	s.fn = fn
	fn(s.current)
	return func() { s.fn = nil }
}

func (s *stubSession) FreshToken(ctx context.Context, forceRefresh bool) (string, error) {
	return "", identity.ErrUnauthenticated
}

func TestInitialStateIsUninitialized(t *testing.T) {
	s := New(&stubSession{})
	got := s.State()
	if got.IsInitialized || got.IsAuthenticated {
		t.Fatalf("zero state = %+v, want both false", got)
	}
}

func TestFirstDeliveryInitializes(t *testing.T) {
	stub := &stubSession{}
	s := New(stub)
	s.BeginTracking()
	defer s.Close()

	got := s.State()
	if !got.IsInitialized || got.IsAuthenticated {
		t.Fatalf("after nil delivery = %+v, want initialized unauthenticated", got)
	}
}

func TestSignInSignOutTransitions(t *testing.T) {
	stub := &stubSession{}
	s := New(stub)
	s.BeginTracking()
	defer s.Close()

	stub.fn(&identity.Identity{SubjectID: "u1"})
	if got := s.State(); !got.IsInitialized || !got.IsAuthenticated {
		t.Fatalf("after sign-in = %+v", got)
	}

	stub.fn(nil)
	if got := s.State(); !got.IsInitialized || got.IsAuthenticated {
		t.Fatalf("after sign-out = %+v, stays initialized", got)
	}
}

func TestBeginTrackingIsIdempotent(t *testing.T) {
	stub := &stubSession{}
	s := New(stub)
	s.BeginTracking()
	s.BeginTracking()
	defer s.Close()

	if stub.attaches != 1 {
		t.Fatalf("provider attaches = %d, want 1", stub.attaches)
	}
}

func TestOnChangeNotifiesListeners(t *testing.T) {
	stub := &stubSession{}
	s := New(stub)

	var states []State
	cancel := s.OnChange(func(st State) { states = append(states, st) })
	defer cancel()

	s.BeginTracking()
	defer s.Close()
	stub.fn(&identity.Identity{SubjectID: "u1"})

	if len(states) != 2 {
		t.Fatalf("deliveries = %d, want 2 (initialize, sign-in)", len(states))
	}
	if states[0].IsAuthenticated || !states[1].IsAuthenticated {
		t.Fatalf("states = %+v", states)
	}
}
