package pushtoken

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orderpush/orderpush/internal/document"
)

// MongoRepository reads the "pushTokens" collection keyed by _id.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository creates a new MongoDB registry repository.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(Collection)}
}

// ListByRole returns every entry with the given role.
func (r *MongoRepository) ListByRole(ctx context.Context, role Role) ([]*Entry, error) {
	return r.find(ctx, bson.M{"role": string(role)})
}

// ListOwnersByStore returns owner entries for the store.
func (r *MongoRepository) ListOwnersByStore(ctx context.Context, storeID string) ([]*Entry, error) {
	return r.find(ctx, bson.M{"role": string(RoleOwner), "ownerStoreId": storeID})
}

// Get retrieves an entry by ID.
func (r *MongoRepository) Get(ctx context.Context, id string) (*Entry, error) {
	var raw bson.M
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("find push token %s: %w", id, err)
	}
	return FromDocument(id, document.AsFields(raw)), nil
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]*Entry, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find push tokens: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*Entry
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode push token: %w", err)
		}
		entries = append(entries, FromDocument(mongoID(raw["_id"]), document.AsFields(raw)))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate push tokens: %w", err)
	}
	return entries, nil
}

// mongoID renders _id as a string. ObjectIDs become their hex form.
func mongoID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return document.Fields{"_id": v}.String("_id")
	}
}

var _ Repository = (*MongoRepository)(nil)
