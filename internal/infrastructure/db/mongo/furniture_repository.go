package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/woodtong/storefront/internal/core/domain"
)

const furnitureCollection = "furniture"

// MongoFurnitureRepository implements ports.CatalogRepository on MongoDB.
type MongoFurnitureRepository struct {
	coll *mongo.Collection
}

func NewFurnitureRepository(db *mongo.Database) *MongoFurnitureRepository {
	return &MongoFurnitureRepository{coll: db.Collection(furnitureCollection)}
}

type mongoFurniture struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Category  string    `bson:"category"`
	Price     float64   `bson:"price"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (mf mongoFurniture) toDomain() domain.Furniture {
	return domain.Furniture{
		ID:        mf.ID,
		Name:      mf.Name,
		Category:  mf.Category,
		Price:     mf.Price,
		CreatedAt: mf.CreatedAt.UTC(),
		UpdatedAt: mf.UpdatedAt.UTC(),
	}
}

func (r *MongoFurnitureRepository) List(ctx context.Context) ([]domain.Furniture, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, unavailable("list furniture", err)
	}
	defer cur.Close(ctx)

	var items []domain.Furniture
	for cur.Next(ctx) {
		var mf mongoFurniture
		if err := cur.Decode(&mf); err != nil {
			return nil, unavailable("decode furniture", err)
		}
		items = append(items, mf.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, unavailable("list furniture", err)
	}
	return items, nil
}

func (r *MongoFurnitureRepository) FindByID(ctx context.Context, id string) (*domain.Furniture, error) {
	var mf mongoFurniture
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mf); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFurnitureNotFound
		}
		return nil, unavailable("find furniture", err)
	}
	item := mf.toDomain()
	return &item, nil
}

// UpdateFields builds the $set document from the fields actually present in
// the update, mirroring the inline editor's partial writes.
func (r *MongoFurnitureRepository) UpdateFields(ctx context.Context, id string, update domain.FurnitureUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return unavailable("update furniture", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrFurnitureNotFound
	}
	return nil
}
