package pushtoken

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/orderpush/orderpush/internal/document"
)

// FirestoreRepository reads the "pushTokens" collection.
type FirestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository creates a new Firestore registry repository.
func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

// ListByRole returns every entry with the given role.
func (r *FirestoreRepository) ListByRole(ctx context.Context, role Role) ([]*Entry, error) {
	q := r.client.Collection(Collection).Where("role", "==", string(role))
	return r.collect(ctx, q)
}

// ListOwnersByStore returns owner entries for the store.
func (r *FirestoreRepository) ListOwnersByStore(ctx context.Context, storeID string) ([]*Entry, error) {
	q := r.client.Collection(Collection).
		Where("role", "==", string(RoleOwner)).
		Where("ownerStoreId", "==", storeID)
	return r.collect(ctx, q)
}

// Get retrieves an entry document by ID.
func (r *FirestoreRepository) Get(ctx context.Context, id string) (*Entry, error) {
	snap, err := r.client.Collection(Collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get push token %s: %w", id, err)
	}
	if !snap.Exists() {
		return nil, ErrEntryNotFound
	}
	return FromDocument(snap.Ref.ID, document.Fields(snap.Data())), nil
}

func (r *FirestoreRepository) collect(ctx context.Context, q firestore.Query) ([]*Entry, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var entries []*Entry
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query push tokens: %w", err)
		}
		entries = append(entries, FromDocument(snap.Ref.ID, document.Fields(snap.Data())))
	}
	return entries, nil
}

var _ Repository = (*FirestoreRepository)(nil)
