// Package recipient resolves the device tokens interested in an order event.
package recipient

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/orderpush/orderpush/internal/order"
	"github.com/orderpush/orderpush/internal/pushtoken"
)

// Recipients is the token set for one order event.
type Recipients struct {
	Order    *order.Order
	Admin    []string
	Owner    []string
	Customer []string
}

// Resolver loads an order and the tokens of its recipient classes.
type Resolver struct {
	orders   order.Repository
	registry pushtoken.Repository
	logger   zerolog.Logger
}

// ResolverConfig holds the dependencies of a Resolver.
type ResolverConfig struct {
	Orders   order.Repository
	Registry pushtoken.Repository
	Logger   zerolog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		orders:   cfg.Orders,
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}
}

// Resolve loads the order and resolves admin, owner and customer tokens.
// Returns order.ErrOrderNotFound when the order does not exist.
func (r *Resolver) Resolve(ctx context.Context, orderID string) (*Recipients, error) {
	o, err := r.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	recipients := &Recipients{Order: o}

	admins, err := r.registry.ListByRole(ctx, pushtoken.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admin tokens: %w", err)
	}
	recipients.Admin = pushtoken.Tokens(admins)

	if o.StoreID != "" {
		owners, err := r.registry.ListOwnersByStore(ctx, o.StoreID)
		if err != nil {
			return nil, fmt.Errorf("list owner tokens for store %s: %w", o.StoreID, err)
		}
		recipients.Owner = pushtoken.Tokens(owners)
	}

	if o.CustomerUID != "" {
		entry, err := r.registry.Get(ctx, o.CustomerUID)
		switch {
		case errors.Is(err, pushtoken.ErrEntryNotFound):
		case err != nil:
			return nil, fmt.Errorf("get customer token: %w", err)
		default:
			recipients.Customer = pushtoken.Tokens([]*pushtoken.Entry{entry})
		}
	}

	r.logger.Debug().
		Str("order_id", orderID).
		Str("store_id", o.StoreID).
		Int("admin", len(recipients.Admin)).
		Int("owner", len(recipients.Owner)).
		Int("customer", len(recipients.Customer)).
		Msg("recipients resolved")

	return recipients, nil
}
