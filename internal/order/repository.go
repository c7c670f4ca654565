package order

import "context"

// Repository reads orders. Orders are owned by the store application; this
// service never writes them.
type Repository interface {
	// Get retrieves an order by ID. Returns ErrOrderNotFound when absent.
	Get(ctx context.Context, id string) (*Order, error)
}
