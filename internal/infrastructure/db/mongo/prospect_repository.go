package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/woodtong/storefront/internal/core/domain"
)

const prospectCollection = "prospects"

// MongoProspectRepository implements ports.ProspectRepository on MongoDB.
type MongoProspectRepository struct {
	coll *mongo.Collection
}

func NewProspectRepository(db *mongo.Database) *MongoProspectRepository {
	return &MongoProspectRepository{coll: db.Collection(prospectCollection)}
}

type mongoProspect struct {
	ID        string    `bson:"_id"`
	FullName  string    `bson:"full_name"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *MongoProspectRepository) Insert(ctx context.Context, prospect *domain.Prospect) error {
	doc := mongoProspect{
		ID:        uuid.NewString(),
		FullName:  prospect.FullName,
		Email:     prospect.Email,
		Phone:     prospect.Phone,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return unavailable("insert prospect", err)
	}
	prospect.ID = doc.ID
	prospect.CreatedAt = doc.CreatedAt
	return nil
}
