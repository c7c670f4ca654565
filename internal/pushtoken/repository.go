package pushtoken

import "context"

// Repository reads registry entries. The registry is owned by the client
// applications; this service never writes it.
type Repository interface {
	// ListByRole returns every entry with the given role.
	ListByRole(ctx context.Context, role Role) ([]*Entry, error)

	// ListOwnersByStore returns owner entries whose ownerStoreId matches storeID.
	ListOwnersByStore(ctx context.Context, storeID string) ([]*Entry, error)

	// Get retrieves an entry by key. Returns ErrEntryNotFound when absent.
	Get(ctx context.Context, id string) (*Entry, error)
}
