package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/woodtong/storefront/internal/core/domain"
)

const userCollection = "users"

// MongoUserStore implements ports.UserStore on MongoDB.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID             string `bson:"_id"`
	Email          string `bson:"email"`
	PasswordDigest string `bson:"password_digest"`
	Role           string `bson:"role"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:             mu.ID,
		Email:          mu.Email,
		PasswordDigest: mu.PasswordDigest,
		Role:           mu.Role,
		CreatedAt:      unixToTime(mu.CreatedAt),
		UpdatedAt:      unixToTime(mu.UpdatedAt),
	}
}

func (r *MongoUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, unavailable("find user", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserStore) InsertUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	doc := mongoUser{
		ID:             uuid.NewString(),
		Email:          domain.NormalizeEmail(user.Email),
		PasswordDigest: user.PasswordDigest,
		Role:           user.Role,
		CreatedAt:      now.Unix(),
		UpdatedAt:      now.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, unavailable("insert user", err)
	}

	return doc.toDomain(), nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
