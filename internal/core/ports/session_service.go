package ports

import (
	"context"

	"github.com/woodtong/storefront/internal/core/domain"
)

// SessionService implements session issuance, validation, sliding renewal and
// revocation on top of a SessionStore.
//
// "Expected" negative outcomes (unknown token, expired session, wrong
// password) come back as domain sentinels, never as panics; only genuinely
// exceptional conditions (store unreachable) surface as other errors.
type SessionService interface {
	// Login checks credentials and opens a new session. Unknown email and
	// wrong password are both domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Identity, error)
	// Create opens a session for an already-authenticated user.
	Create(ctx context.Context, userID string) (*domain.TokenPair, error)
	// Validate resolves a session token to the owning user's identity. An
	// expired session is deleted on sight and reported exactly like a missing
	// one (domain.ErrSessionNotFound).
	Validate(ctx context.Context, token string) (*domain.Identity, error)
	// NeedsRenewal reports whether the session is inside the renewal window.
	// Unknown tokens are false, not an error; existence is Validate's call.
	NeedsRenewal(ctx context.Context, token string) (bool, error)
	// Renew rotates both tokens and extends expiry in place, returning the new
	// session token. Unknown tokens are domain.ErrSessionNotFound, which
	// callers must treat as "nothing to renew".
	Renew(ctx context.Context, token string) (string, error)
	// Refresh exchanges a refresh token for a fresh token pair on the same
	// session row.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Revoke deletes the session holding this token. Idempotent.
	Revoke(ctx context.Context, token string) error
	// PurgeExpired deletes every expired session and returns the count.
	PurgeExpired(ctx context.Context) (int64, error)
}
