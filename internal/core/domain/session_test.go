package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSessionState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to SessionState
		want     bool
	}{
		{StateLoggedOut, StateAuthenticating, true},
		{StateLoggedOut, StateAuthenticated, false},
		{StateAuthenticating, StateAuthenticated, true},
		{StateAuthenticating, StateLoggedOut, true},
		{StateAuthenticated, StateLoggedOut, true},
		{StateAuthenticated, StateAuthenticating, false},
		{StateLoggedOut, StateLoggedOut, false},
	}

	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestSession_TransitionAndActive(t *testing.T) {
	now := time.Now()
	s := &Session{State: StateLoggedOut, ExpiresAt: now.Add(time.Minute)}

	if err := s.Transition(StateAuthenticated); !errors.Is(err, ErrInvalidSessionTransition) {
		t.Fatalf("skipping authenticating should fail, got %v", err)
	}
	if s.Active(now) {
		t.Fatalf("logged-out session reported active")
	}

	if err := s.Transition(StateAuthenticating); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := s.Transition(StateAuthenticated); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if !s.Active(now) {
		t.Fatalf("authenticated session not active")
	}
	if s.Active(now.Add(2 * time.Minute)) {
		t.Fatalf("expired session reported active")
	}
}
