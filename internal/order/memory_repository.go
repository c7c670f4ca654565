package order

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

// NewInMemoryRepository creates a new in-memory order repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		orders: make(map[string]*Order),
	}
}

// Put stores an order, replacing any existing order with the same ID.
func (r *InMemoryRepository) Put(o *Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = copyOrder(o)
}

// Get retrieves an order by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func copyOrder(o *Order) *Order {
	if o == nil {
		return nil
	}
	orderCopy := *o
	orderCopy.Lines = append([]LineItem(nil), o.Lines...)
	return &orderCopy
}

var _ Repository = (*InMemoryRepository)(nil)
