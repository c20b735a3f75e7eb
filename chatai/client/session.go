package client

import (
	"time"

	"chatai/chatai/types"
)

type SessionState int

const (
	SessionAbsent SessionState = iota
	SessionValid
	SessionExpired
)

// Session is the explicit session context replacing ambient globals:
// everything the client knows about being logged in lives here.
type Session struct {
	Token     string
	User      types.PublicUser
	ExpiresAt time.Time
}

func (s Session) State() SessionState {
	if s.Token == "" {
		return SessionAbsent
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return SessionExpired
	}
	return SessionValid
}
