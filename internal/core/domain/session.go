package domain

import (
	"errors"
	"fmt"
	"time"
)

// Tool identifies which of the two record tools a session belongs to.
type Tool string

const (
	ToolLedger    Tool = "ledger"
	ToolInventory Tool = "inventory"
)

// SessionState is the lifecycle state of a session.
type SessionState string

const (
	StateLoggedOut      SessionState = "logged_out"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
)

// validSessionTransitions defines the allowed session state machine transitions.
var validSessionTransitions = map[SessionState][]SessionState{
	StateLoggedOut:      {StateAuthenticating},
	StateAuthenticating: {StateAuthenticated, StateLoggedOut},
	StateAuthenticated:  {StateLoggedOut},
}

var ErrInvalidSessionTransition = errors.New("invalid session transition")

// CanTransitionTo reports whether a transition from current state to next is valid.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	for _, allowed := range validSessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Session binds one authenticated identity. Ledger sessions carry the
// account number; inventory sessions carry the username.
type Session struct {
	ID            string       `json:"id"`
	Tool          Tool         `json:"tool"`
	AccountNumber int64        `json:"account_number,omitempty"`
	Username      string       `json:"username,omitempty"`
	State         SessionState `json:"state"`
	IssuedAt      time.Time    `json:"issued_at"`
	ExpiresAt     time.Time    `json:"expires_at"`
}

// Transition moves the session to next or returns ErrInvalidSessionTransition.
func (s *Session) Transition(next SessionState) error {
	if !s.State.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", ErrInvalidSessionTransition, s.State, next)
	}
	s.State = next
	return nil
}

// Active reports whether the session is authenticated and unexpired at now.
func (s *Session) Active(now time.Time) bool {
	return s.State == StateAuthenticated && now.Before(s.ExpiresAt)
}
