package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/woodtong/storefront/internal/core/domain"
)

const sessionCollection = "sessions"

// MongoSessionStore implements ports.SessionStore on MongoDB.
type MongoSessionStore struct {
	sessions *mongo.Collection
	users    *mongo.Collection
}

func NewSessionStore(db *mongo.Database) *MongoSessionStore {
	return &MongoSessionStore{
		sessions: db.Collection(sessionCollection),
		users:    db.Collection(userCollection),
	}
}

type mongoSession struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"user_id"`
	SessionToken string    `bson:"session_token"`
	RefreshToken string    `bson:"refresh_token"`
	ExpiresAt    time.Time `bson:"expires_at"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (ms mongoSession) toDomain() *domain.Session {
	return &domain.Session{
		ID:           ms.ID,
		UserID:       ms.UserID,
		SessionToken: ms.SessionToken,
		RefreshToken: ms.RefreshToken,
		ExpiresAt:    ms.ExpiresAt.UTC(),
		CreatedAt:    ms.CreatedAt.UTC(),
	}
}

func (r *MongoSessionStore) InsertSession(ctx context.Context, userID, sessionToken, refreshToken string, expiresAt time.Time) error {
	doc := mongoSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		SessionToken: sessionToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.UTC(),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := r.sessions.InsertOne(ctx, doc); err != nil {
		return unavailable("insert session", err)
	}
	return nil
}

func (r *MongoSessionStore) FindSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	return r.findOne(ctx, bson.M{"session_token": token})
}

func (r *MongoSessionStore) FindSessionByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	return r.findOne(ctx, bson.M{"refresh_token": token})
}

func (r *MongoSessionStore) findOne(ctx context.Context, filter bson.M) (*domain.Session, error) {
	var ms mongoSession
	if err := r.sessions.FindOne(ctx, filter).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, unavailable("find session", err)
	}
	return ms.toDomain(), nil
}

// FindSessionWithUser resolves a session token together with the owning user.
// Two point reads instead of an aggregation $lookup; both are covered by
// unique indexes.
func (r *MongoSessionStore) FindSessionWithUser(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	session, err := r.FindSessionByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"_id": session.UserID}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Orphaned session: owner no longer exists.
			return nil, nil, domain.ErrSessionNotFound
		}
		return nil, nil, unavailable("find session user", err)
	}

	return session, mu.toDomain(), nil
}

func (r *MongoSessionStore) UpdateSessionTokens(ctx context.Context, sessionID, newSessionToken, newRefreshToken string, newExpiresAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"session_token": newSessionToken,
		"refresh_token": newRefreshToken,
		"expires_at":    newExpiresAt.UTC(),
	}}
	res, err := r.sessions.UpdateOne(ctx, bson.M{"_id": sessionID}, update)
	if err != nil {
		return unavailable("update session tokens", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *MongoSessionStore) DeleteSessionByID(ctx context.Context, sessionID string) error {
	if _, err := r.sessions.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		return unavailable("delete session", err)
	}
	return nil
}

// DeleteSessionByToken is idempotent: deleting an unknown token is a no-op.
func (r *MongoSessionStore) DeleteSessionByToken(ctx context.Context, token string) error {
	if _, err := r.sessions.DeleteOne(ctx, bson.M{"session_token": token}); err != nil {
		return unavailable("delete session", err)
	}
	return nil
}

func (r *MongoSessionStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.sessions.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now.UTC()}})
	if err != nil {
		return 0, unavailable("delete expired sessions", err)
	}
	return res.DeletedCount, nil
}

// unavailable tags a backend failure so the gating layer can apply its
// fail-closed policy instead of crashing the request.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %s", op, domain.ErrStoreUnavailable, err)
}
