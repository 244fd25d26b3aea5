package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrStoreUnavailable = errors.New("session store unavailable")

// Session represents one authenticated browser or client instance. A user may
// hold many sessions at once. The session token is the bearer credential; the
// refresh token can be exchanged for a fresh token pair while the row exists.
//
// Lifecycle: created on login, mutated in place on renewal (tokens and expiry
// replaced, same ID), deleted on logout, on expiry detected during validation,
// or by the periodic purge. ExpiresAt only ever moves forward.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SessionToken string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the session has passed its expiry at instant now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// TokenPair is what a successful login, refresh or renewal hands back to the
// transport layer.
type TokenPair struct {
	SessionToken string `json:"session_token"`
	RefreshToken string `json:"refresh_token"`
}
