package pushtoken

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// Entries are returned in insertion order. This is intended for testing.
type InMemoryRepository struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*Entry
}

// NewInMemoryRepository creates a new in-memory registry.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries: make(map[string]*Entry),
	}
}

// Put stores an entry, replacing any entry with the same ID.
func (r *InMemoryRepository) Put(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[e.ID]; !ok {
		r.order = append(r.order, e.ID)
	}
	entryCopy := *e
	r.entries[e.ID] = &entryCopy
}

// ListByRole returns every entry with the given role.
func (r *InMemoryRepository) ListByRole(_ context.Context, role Role) ([]*Entry, error) {
	return r.filter(func(e *Entry) bool { return e.Role == role }), nil
}

// ListOwnersByStore returns owner entries for the store.
func (r *InMemoryRepository) ListOwnersByStore(_ context.Context, storeID string) ([]*Entry, error) {
	return r.filter(func(e *Entry) bool {
		return e.Role == RoleOwner && e.OwnerStoreID == storeID
	}), nil
}

// Get retrieves an entry by key.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	entryCopy := *e
	return &entryCopy, nil
}

func (r *InMemoryRepository) filter(keep func(*Entry) bool) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry
	for _, id := range r.order {
		e := r.entries[id]
		if keep(e) {
			entryCopy := *e
			out = append(out, &entryCopy)
		}
	}
	return out
}

var _ Repository = (*InMemoryRepository)(nil)
