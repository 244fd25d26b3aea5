package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/woodtong/storefront/internal/core/domain"
)

// stubStore is a map-backed SessionStore + UserStore. Setting failing makes
// every operation report the backend as unreachable.
type stubStore struct {
	sessions map[string]*domain.Session // keyed by session ID
	users    map[string]*domain.User    // keyed by user ID
	failing  bool
	nextID   int
}

func newStubStore() *stubStore {
	return &stubStore{
		sessions: make(map[string]*domain.Session),
		users:    make(map[string]*domain.User),
	}
}

func (s *stubStore) addUser(id, email, digest, role string) *domain.User {
	u := &domain.User{ID: id, Email: email, PasswordDigest: digest, Role: role}
	s.users[id] = u
	return u
}

func (s *stubStore) addSession(userID, token, refresh string, expiresAt time.Time) *domain.Session {
	s.nextID++
	sess := &domain.Session{
		ID:           fmt.Sprintf("sess-%d", s.nextID),
		UserID:       userID,
		SessionToken: token,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		CreatedAt:    time.Now().UTC(),
	}
	s.sessions[sess.ID] = sess
	return sess
}

func (s *stubStore) fail() error {
	if s.failing {
		return fmt.Errorf("stub: %w: connection refused", domain.ErrStoreUnavailable)
	}
	return nil
}

func (s *stubStore) InsertSession(_ context.Context, userID, sessionToken, refreshToken string, expiresAt time.Time) error {
	if err := s.fail(); err != nil {
		return err
	}
	s.addSession(userID, sessionToken, refreshToken, expiresAt)
	return nil
}

func (s *stubStore) FindSessionByToken(_ context.Context, token string) (*domain.Session, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	for _, sess := range s.sessions {
		if sess.SessionToken == token {
			clone := *sess
			return &clone, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (s *stubStore) FindSessionWithUser(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	sess, err := s.FindSessionByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	user, ok := s.users[sess.UserID]
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	clone := *user
	return sess, &clone, nil
}

func (s *stubStore) FindSessionByRefreshToken(_ context.Context, token string) (*domain.Session, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	for _, sess := range s.sessions {
		if sess.RefreshToken == token {
			clone := *sess
			return &clone, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (s *stubStore) UpdateSessionTokens(_ context.Context, sessionID, newSessionToken, newRefreshToken string, newExpiresAt time.Time) error {
	if err := s.fail(); err != nil {
		return err
	}
	sess, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.SessionToken = newSessionToken
	sess.RefreshToken = newRefreshToken
	sess.ExpiresAt = newExpiresAt
	return nil
}

func (s *stubStore) DeleteSessionByID(_ context.Context, sessionID string) error {
	if err := s.fail(); err != nil {
		return err
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *stubStore) DeleteSessionByToken(_ context.Context, token string) error {
	if err := s.fail(); err != nil {
		return err
	}
	for id, sess := range s.sessions {
		if sess.SessionToken == token {
			delete(s.sessions, id)
			return nil
		}
	}
	return nil
}

func (s *stubStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	if err := s.fail(); err != nil {
		return 0, err
	}
	var count int64
	for id, sess := range s.sessions {
		if sess.ExpiresAt.Before(now) {
			delete(s.sessions, id)
			count++
		}
	}
	return count, nil
}

func (s *stubStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) InsertUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	clone := *user
	if clone.ID == "" {
		clone.ID = clone.Email
	}
	s.users[clone.ID] = &clone
	return &clone, nil
}

func newTestService(store *stubStore) *sessionService {
	return NewSessionService(store, store, 7*24*time.Hour, time.Hour, zerolog.Nop()).(*sessionService)
}

func TestSessionService_CreateThenValidate(t *testing.T) {
	store := newStubStore()
	store.addUser("u1", "alice@example.com", "", domain.RoleClient)
	svc := newTestService(store)

	pair, err := svc.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if pair.SessionToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if pair.SessionToken == pair.RefreshToken {
		t.Fatalf("session and refresh tokens must differ")
	}

	identity, err := svc.Validate(context.Background(), pair.SessionToken)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if identity.UserID != "u1" || identity.Email != "alice@example.com" || identity.Role != domain.RoleClient {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestSessionService_Validate_UnknownToken(t *testing.T) {
	svc := newTestService(newStubStore())

	if _, err := svc.Validate(context.Background(), "no-such-token"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionService_Validate_ExpiredSessionIsDeleted(t *testing.T) {
	store := newStubStore()
	store.addUser("u1", "alice@example.com", "", domain.RoleClient)
	sess := store.addSession("u1", "tok", "ref", time.Now().UTC().Add(-time.Second))
	svc := newTestService(store)

	if _, err := svc.Validate(context.Background(), "tok"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}
	if _, ok := store.sessions[sess.ID]; ok {
		t.Fatalf("expired session should have been deleted eagerly")
	}
}

func TestSessionService_Validate_StoreUnavailable(t *testing.T) {
	store := newStubStore()
	store.failing = true
	svc := newTestService(store)

	_, err := svc.Validate(context.Background(), "tok")
	if err == nil || errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected store failure to be distinct from not-found, got %v", err)
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSessionService_NeedsRenewal(t *testing.T) {
	store := newStubStore()
	store.addUser("u1", "alice@example.com", "", domain.RoleClient)
	svc := newTestService(store)

	pair, err := svc.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Fresh 7-day session is nowhere near the 1-hour window.
	needed, err := svc.NeedsRenewal(context.Background(), pair.SessionToken)
	if err != nil {
		t.Fatalf("NeedsRenewal returned error: %v", err)
	}
	if needed {
		t.Fatalf("fresh session should not need renewal")
	}

	// Pull the session inside the renewal window.
	for _, sess := range store.sessions {
		sess.ExpiresAt = time.Now().UTC().Add(30 * time.Minute)
	}
	needed, err = svc.NeedsRenewal(context.Background(), pair.SessionToken)
	if err != nil {
		t.Fatalf("NeedsRenewal returned error: %v", err)
	}
	if !needed {
		t.Fatalf("session within the threshold should need renewal")
	}
}

func TestSessionService_NeedsRenewal_UnknownTokenIsFalse(t *testing.T) {
	svc := newTestService(newStubStore())

	needed, err := svc.NeedsRenewal(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("NeedsRenewal returned error: %v", err)
	}
	if needed {
		t.Fatalf("unknown token must report false, not an error")
	}
}

func TestSessionService_Renew_RotatesTokensInPlace(t *testing.T) {
	store := newStubStore()
	store.addUser("u1", "alice@example.com", "", domain.RoleClient)
	sess := store.addSession("u1", "old-token", "old-refresh", time.Now().UTC().Add(time.Hour))
	svc := newTestService(store)

	newToken, err := svc.Renew(context.Background(), "old-token")
	if err != nil {
		t.Fatalf("Renew returned error: %v", err)
	}
	if newToken == "old-token" || newToken == "" {
		t.Fatalf("expected a fresh session token, got %q", newToken)
	}

	stored := store.sessions[sess.ID]
	if stored == nil {
		t.Fatalf("session row must survive renewal")
	}
	if stored.SessionToken != newToken {
		t.Fatalf("stored token %q does not match returned %q", stored.SessionToken, newToken)
	}
	if stored.RefreshToken == "old-refresh" {
		t.Fatalf("refresh token must rotate on renewal")
	}
	if time.Until(stored.ExpiresAt) < 6*24*time.Hour {
		t.Fatalf("expiry should restart from now, got %v", stored.ExpiresAt)
	}

	if _, err := svc.Validate(context.Background(), "old-token"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("old token must be invalid after rotation, got %v", err)
	}
	if _, err := svc.Validate(context.Background(), newToken); err != nil {
		t.Fatalf("new token must validate, got %v", err)
	}
}

func TestSessionService_Renew_UnknownToken(t *testing.T) {
	svc := newTestService(newStubStore())

	if _, err := svc.Renew(context.Background(), "no-such-token"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionService_Revoke_Idempotent(t *testing.T) {
	store := newStubStore()
	store.addSession("u1", "tok", "ref", time.Now().UTC().Add(time.Hour))
	svc := newTestService(store)

	if err := svc.Revoke(context.Background(), "tok"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if len(store.sessions) != 0 {
		t.Fatalf("session should be gone after revoke")
	}
	// Revoking again is a no-op, not an error.
	if err := svc.Revoke(context.Background(), "tok"); err != nil {
		t.Fatalf("second Revoke returned error: %v", err)
	}
}

func TestSessionService_PurgeExpired(t *testing.T) {
	store := newStubStore()
	now := time.Now().UTC()
	store.addSession("u1", "e1", "r1", now.Add(-time.Hour))
	store.addSession("u1", "e2", "r2", now.Add(-time.Minute))
	store.addSession("u2", "e3", "r3", now.Add(-24*time.Hour))
	store.addSession("u1", "a1", "r4", now.Add(time.Hour))
	store.addSession("u2", "a2", "r5", now.Add(48*time.Hour))
	svc := newTestService(store)

	count, err := svc.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("PurgeExpired returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 purged, got %d", count)
	}
	if len(store.sessions) != 2 {
		t.Fatalf("expected 2 surviving sessions, got %d", len(store.sessions))
	}
}

func TestSessionService_Login(t *testing.T) {
	digest, err := HashPassword("goodpass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	store := newStubStore()
	store.addUser("u1", "carol@example.com", digest, domain.RoleAdmin)
	svc := newTestService(store)

	pair, identity, err := svc.Login(context.Background(), "Carol@Example.com", "goodpass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if identity.Role != domain.RoleAdmin || identity.UserID != "u1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if _, err := svc.Validate(context.Background(), pair.SessionToken); err != nil {
		t.Fatalf("token from login must validate: %v", err)
	}
}

func TestSessionService_Login_BadCredentials(t *testing.T) {
	digest, err := HashPassword("goodpass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	store := newStubStore()
	store.addUser("u1", "dave@example.com", digest, domain.RoleClient)
	svc := newTestService(store)

	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	// Unknown account must be indistinguishable from a wrong password.
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSessionService_Refresh(t *testing.T) {
	store := newStubStore()
	store.addUser("u1", "alice@example.com", "", domain.RoleClient)
	sess := store.addSession("u1", "old-token", "old-refresh", time.Now().UTC().Add(time.Hour))
	svc := newTestService(store)

	pair, err := svc.Refresh(context.Background(), "old-refresh")
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if pair.SessionToken == "old-token" || pair.RefreshToken == "old-refresh" {
		t.Fatalf("refresh must rotate both tokens, got %+v", pair)
	}
	if store.sessions[sess.ID].SessionToken != pair.SessionToken {
		t.Fatalf("rotation must happen on the same session row")
	}
	if _, err := svc.Validate(context.Background(), "old-token"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("old session token must be dead after refresh, got %v", err)
	}
}

func TestSessionService_Refresh_ExpiredOrUnknown(t *testing.T) {
	store := newStubStore()
	sess := store.addSession("u1", "tok", "expired-refresh", time.Now().UTC().Add(-time.Minute))
	svc := newTestService(store)

	if _, err := svc.Refresh(context.Background(), "expired-refresh"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for expired refresh token, got %v", err)
	}
	if _, ok := store.sessions[sess.ID]; ok {
		t.Fatalf("expired session should be deleted when its refresh token is used")
	}

	if _, err := svc.Refresh(context.Background(), "no-such-refresh"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for unknown refresh token, got %v", err)
	}
}
