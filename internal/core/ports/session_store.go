package ports

import (
	"context"
	"time"

	"github.com/woodtong/storefront/internal/core/domain"
)

// SessionStore is the persistence boundary for session records. The core never
// caches rows across requests; every operation re-reads current state, which
// is the correctness basis for expiry and revocation.
//
// Lookup misses are domain.ErrSessionNotFound. An unreachable backend is
// surfaced as an error wrapping domain.ErrStoreUnavailable so the gate can
// fail closed on restricted paths without crashing the request pipeline.
type SessionStore interface {
	InsertSession(ctx context.Context, userID, sessionToken, refreshToken string, expiresAt time.Time) error
	FindSessionByToken(ctx context.Context, token string) (*domain.Session, error)
	// FindSessionWithUser is the joined variant used by validation: it returns
	// the session together with its owning user.
	FindSessionWithUser(ctx context.Context, token string) (*domain.Session, *domain.User, error)
	FindSessionByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	// UpdateSessionTokens replaces both tokens and the expiry of an existing
	// session in a single write. Record identity is preserved.
	UpdateSessionTokens(ctx context.Context, sessionID, newSessionToken, newRefreshToken string, newExpiresAt time.Time) error
	DeleteSessionByID(ctx context.Context, sessionID string) error
	DeleteSessionByToken(ctx context.Context, token string) error
	// DeleteExpiredSessions removes every session whose expiry precedes now
	// and reports how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// UserStore reads and creates account records.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	InsertUser(ctx context.Context, user *domain.User) (*domain.User, error)
}
