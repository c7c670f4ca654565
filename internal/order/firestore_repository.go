package order

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/orderpush/orderpush/internal/document"
)

// FirestoreRepository reads orders from the Firestore "orders" collection.
type FirestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository creates a new Firestore order repository.
func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

// Get retrieves an order document by ID.
func (r *FirestoreRepository) Get(ctx context.Context, id string) (*Order, error) {
	snap, err := r.client.Collection(Collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if !snap.Exists() {
		return nil, ErrOrderNotFound
	}

	return FromDocument(snap.Ref.ID, document.Fields(snap.Data())), nil
}

var _ Repository = (*FirestoreRepository)(nil)
