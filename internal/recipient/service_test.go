package recipient_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpush/orderpush/internal/order"
	"github.com/orderpush/orderpush/internal/pushtoken"
	"github.com/orderpush/orderpush/internal/recipient"
)

var fcmToken = strings.Repeat("f", 30)

func newResolver(orders order.Repository, registry pushtoken.Repository) *recipient.Resolver {
	return recipient.NewResolver(recipient.ResolverConfig{
		Orders:   orders,
		Registry: registry,
		Logger:   zerolog.Nop(),
	})
}

func seedRegistry() *pushtoken.InMemoryRepository {
	reg := pushtoken.NewInMemoryRepository()
	reg.Put(&pushtoken.Entry{ID: "adm", Role: pushtoken.RoleAdmin, ExpoToken: "ExponentPushToken[admin]"})
	reg.Put(&pushtoken.Entry{ID: "adm-empty", Role: pushtoken.RoleAdmin})
	reg.Put(&pushtoken.Entry{ID: "own-s1", Role: pushtoken.RoleOwner, OwnerStoreID: "s1", FCMToken: fcmToken})
	reg.Put(&pushtoken.Entry{ID: "own-s2", Role: pushtoken.RoleOwner, OwnerStoreID: "s2", Token: "other"})
	reg.Put(&pushtoken.Entry{ID: "cust-1", Token: "ExponentPushToken[cust]"})
	return reg
}

func TestResolve_AllClasses(t *testing.T) {
	orders := order.NewInMemoryRepository()
	orders.Put(&order.Order{ID: "o1", StoreID: "s1", CustomerUID: "cust-1"})

	got, err := newResolver(orders, seedRegistry()).Resolve(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, "o1", got.Order.ID)
	assert.Equal(t, []string{"ExponentPushToken[admin]"}, got.Admin)
	assert.Equal(t, []string{fcmToken}, got.Owner)
	assert.Equal(t, []string{"ExponentPushToken[cust]"}, got.Customer)
}

func TestResolve_SkipsMissingStoreAndCustomer(t *testing.T) {
	orders := order.NewInMemoryRepository()
	orders.Put(&order.Order{ID: "o2"})
	orders.Put(&order.Order{ID: "o3", StoreID: "s9", CustomerUID: "ghost"})
	resolver := newResolver(orders, seedRegistry())

	got, err := resolver.Resolve(context.Background(), "o2")
	require.NoError(t, err)
	assert.Empty(t, got.Owner)
	assert.Empty(t, got.Customer)
	assert.Len(t, got.Admin, 1)

	got, err = resolver.Resolve(context.Background(), "o3")
	require.NoError(t, err)
	assert.Empty(t, got.Owner)
	assert.Empty(t, got.Customer)
}

func TestResolve_OrderNotFound(t *testing.T) {
	_, err := newResolver(order.NewInMemoryRepository(), seedRegistry()).
		Resolve(context.Background(), "missing")

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

type failingRegistry struct {
	pushtoken.Repository
}

func (failingRegistry) ListByRole(context.Context, pushtoken.Role) ([]*pushtoken.Entry, error) {
	return nil, errors.New("registry unavailable")
}

func TestResolve_RegistryError(t *testing.T) {
	orders := order.NewInMemoryRepository()
	orders.Put(&order.Order{ID: "o1"})

	_, err := newResolver(orders, failingRegistry{}).Resolve(context.Background(), "o1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry unavailable")
	assert.NotErrorIs(t, err, order.ErrOrderNotFound)
}
