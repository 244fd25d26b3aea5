package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/woodtong/storefront/internal/core/domain"
	"github.com/woodtong/storefront/internal/core/ports"
)

const (
	defaultLifetime         = 7 * 24 * time.Hour
	defaultRenewalThreshold = time.Hour
)

type sessionService struct {
	sessions         ports.SessionStore
	users            ports.UserStore
	lifetime         time.Duration
	renewalThreshold time.Duration
	log              zerolog.Logger
}

// NewSessionService returns a SessionService with the given session lifetime
// and renewal threshold. Non-positive durations fall back to the defaults
// (7 days, 1 hour).
func NewSessionService(
	sessions ports.SessionStore,
	users ports.UserStore,
	lifetime time.Duration,
	renewalThreshold time.Duration,
	log zerolog.Logger,
) ports.SessionService {
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}
	if renewalThreshold <= 0 {
		renewalThreshold = defaultRenewalThreshold
	}
	return &sessionService{
		sessions:         sessions,
		users:            users,
		lifetime:         lifetime,
		renewalThreshold: renewalThreshold,
		log:              log,
	}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Identity, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Unknown account and wrong password are indistinguishable.
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if !VerifyPassword(password, user.PasswordDigest) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return pair, &domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *sessionService) Create(ctx context.Context, userID string) (*domain.TokenPair, error) {
	pair, err := newTokenPair()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.lifetime)
	if err := s.sessions.InsertSession(ctx, userID, pair.SessionToken, pair.RefreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return pair, nil
}

// Validate is the sole place expiry is enforced: an expired row is deleted on
// sight and reported exactly like a missing one.
func (s *sessionService) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, user, err := s.sessions.FindSessionWithUser(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("validate session: %w", err)
	}

	if session.Expired(time.Now().UTC()) {
		if delErr := s.sessions.DeleteSessionByID(ctx, session.ID); delErr != nil {
			s.log.Warn().Err(delErr).Str("session_id", session.ID).Msg("failed to delete expired session")
		}
		return nil, domain.ErrSessionNotFound
	}

	return &domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *sessionService) NeedsRenewal(ctx context.Context, token string) (bool, error) {
	session, err := s.sessions.FindSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("renewal check: %w", err)
	}
	return time.Until(session.ExpiresAt) < s.renewalThreshold, nil
}

// Renew implements sliding expiration with token rotation: both tokens are
// replaced and the expiry restarts from now, on the same session row.
//
// Two requests racing to renew the same session may each mint a pair; last
// write wins in the store and the loser's token is immediately invalid. This
// narrow race is accepted rather than taken with a distributed lock.
func (s *sessionService) Renew(ctx context.Context, token string) (string, error) {
	session, err := s.sessions.FindSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("renew session: %w", err)
	}

	pair, err := newTokenPair()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().UTC().Add(s.lifetime)
	if err := s.sessions.UpdateSessionTokens(ctx, session.ID, pair.SessionToken, pair.RefreshToken, expiresAt); err != nil {
		return "", fmt.Errorf("renew session: %w", err)
	}
	return pair.SessionToken, nil
}

func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.sessions.FindSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	if session.Expired(time.Now().UTC()) {
		// The refresh token dies with its session row.
		if delErr := s.sessions.DeleteSessionByID(ctx, session.ID); delErr != nil {
			s.log.Warn().Err(delErr).Str("session_id", session.ID).Msg("failed to delete expired session")
		}
		return nil, domain.ErrSessionNotFound
	}

	pair, err := newTokenPair()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.lifetime)
	if err := s.sessions.UpdateSessionTokens(ctx, session.ID, pair.SessionToken, pair.RefreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return pair, nil
}

func (s *sessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSessionByToken(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	count, err := s.sessions.DeleteExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return count, nil
}

func newTokenPair() (*domain.TokenPair, error) {
	sessionToken, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	refreshToken, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{SessionToken: sessionToken, RefreshToken: refreshToken}, nil
}
