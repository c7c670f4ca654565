package order

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orderpush/orderpush/internal/document"
)

// MongoRepository reads orders from a MongoDB "orders" collection keyed by _id.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository creates a new MongoDB order repository.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(Collection)}
}

// Get retrieves an order document by ID.
func (r *MongoRepository) Get(ctx context.Context, id string) (*Order, error) {
	var raw bson.M
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}

	return FromDocument(id, document.AsFields(raw)), nil
}

var _ Repository = (*MongoRepository)(nil)
