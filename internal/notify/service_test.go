package notify_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpush/orderpush/internal/notify"
	"github.com/orderpush/orderpush/internal/order"
	"github.com/orderpush/orderpush/internal/push"
	"github.com/orderpush/orderpush/internal/pushtoken"
	"github.com/orderpush/orderpush/internal/recipient"
)

type dispatchCall struct {
	tokens  []string
	title   string
	body    string
	payload map[string]any
}

type recordingDispatcher struct {
	calls []dispatchCall
}

func (r *recordingDispatcher) Dispatch(_ context.Context, tokens []string, title, body string, payload map[string]any) push.Result {
	r.calls = append(r.calls, dispatchCall{tokens: tokens, title: title, body: body, payload: payload})
	return push.Result{
		Expo: push.LaneResult{Lane: push.LaneExpo, Outcome: push.OutcomeSkipped},
		FCM:  push.LaneResult{Lane: push.LaneFCM, Attempted: len(tokens), Succeeded: len(tokens), Outcome: push.OutcomeSucceeded},
	}
}

func ptr(v float64) *float64 { return &v }

var ownerToken = strings.Repeat("o", 30)

func setup(t *testing.T, orders ...*order.Order) (*notify.Service, *recordingDispatcher) {
	t.Helper()

	orderRepo := order.NewInMemoryRepository()
	for _, o := range orders {
		orderRepo.Put(o)
	}

	registry := pushtoken.NewInMemoryRepository()
	registry.Put(&pushtoken.Entry{ID: "a1", Role: pushtoken.RoleAdmin, Token: "admin-token"})
	registry.Put(&pushtoken.Entry{ID: "w1", Role: pushtoken.RoleOwner, OwnerStoreID: "store-1", FCMToken: ownerToken})
	registry.Put(&pushtoken.Entry{ID: "cust-1", ExpoToken: "ExponentPushToken[c]"})

	dispatcher := &recordingDispatcher{}
	svc := notify.NewService(notify.ServiceConfig{
		Resolver: recipient.NewResolver(recipient.ResolverConfig{
			Orders:   orderRepo,
			Registry: registry,
			Logger:   zerolog.Nop(),
		}),
		Dispatcher: dispatcher,
		Logger:     zerolog.Nop(),
	})
	return svc, dispatcher
}

func TestNewOrder_DispatchesOwnerAdminCustomerInOrder(t *testing.T) {
	svc, d := setup(t, &order.Order{
		ID:          "order-abc123",
		StoreID:     "store-1",
		CustomerUID: "cust-1",
		Customer:    order.Customer{FullName: "Ada"},
		ItemsTotal:  ptr(50),
		DeliveryFee: ptr(20),
		Lines:       []order.LineItem{{Price: 25}, {Price: 25}},
	})

	report, err := svc.NewOrder(context.Background(), notify.NewOrderInput{OrderID: "order-abc123"})
	require.NoError(t, err)

	assert.Equal(t, notify.Counts{Admin: 1, Owner: 1, Customer: 1}, report.Counts)
	require.Len(t, d.calls, 3)

	owner, admin, customer := d.calls[0], d.calls[1], d.calls[2]
	assert.Equal(t, []string{ownerToken}, owner.tokens)
	assert.Equal(t, "New order #abc123", owner.title)
	assert.Equal(t, "Ada · 70.00 · 2 items", owner.body)

	assert.Equal(t, []string{"admin-token"}, admin.tokens)
	assert.Equal(t, "New order at store store-1", admin.title)
	assert.Equal(t, "Order #abc123 · 70.00", admin.body)

	assert.Equal(t, "Order received", customer.title)
	assert.Equal(t, "Your order #abc123 was placed. Total 70.00", customer.body)

	assert.Equal(t, notify.EventNewOrder, owner.payload["type"])
	assert.Equal(t, "order-abc123", owner.payload["orderId"])
	assert.Equal(t, "70.00", owner.payload["grandTotal"])
	assert.Len(t, report.Results, 3)
}

func TestNewOrder_OverridesWin(t *testing.T) {
	svc, d := setup(t, &order.Order{ID: "o1", StoreID: "store-1", Total: ptr(999), DeliveryFee: ptr(5)})

	_, err := svc.NewOrder(context.Background(), notify.NewOrderInput{
		OrderID:    "o1",
		GrandTotal: ptr(12.5),
	})
	require.NoError(t, err)

	require.NotEmpty(t, d.calls)
	assert.Equal(t, "12.50", d.calls[0].payload["grandTotal"])
}

func TestNewOrder_Validation(t *testing.T) {
	svc, d := setup(t)

	_, err := svc.NewOrder(context.Background(), notify.NewOrderInput{OrderID: "  "})
	assert.ErrorIs(t, err, notify.ErrMissingOrderID)
	assert.True(t, notify.IsValidation(err))
	assert.Empty(t, d.calls)
}

func TestNewOrder_NotFound(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.NewOrder(context.Background(), notify.NewOrderInput{OrderID: "nope"})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.False(t, notify.IsValidation(err))
}

func TestStatusChange_Texts(t *testing.T) {
	svc, d := setup(t, &order.Order{ID: "xyz-000042", StoreID: "store-1", CustomerUID: "cust-1"})

	report, err := svc.StatusChange(context.Background(), notify.StatusChangeInput{OrderID: "xyz-000042", Status: "shipped"})
	require.NoError(t, err)

	assert.Equal(t, notify.Counts{Admin: 1, Owner: 1, Customer: 1}, report.Counts)
	require.Len(t, d.calls, 3)
	assert.Equal(t, "Order #000042 updated", d.calls[0].title)
	assert.Equal(t, "Status changed to Shipped", d.calls[1].body)
	assert.Equal(t, "Order update", d.calls[2].title)
	assert.Equal(t, "Your order #000042 is now Shipped", d.calls[2].body)
	assert.Equal(t, "shipped", d.calls[2].payload["status"])
	assert.NotContains(t, d.calls[2].payload, "grandTotal")
}

func TestStatusChange_NoTokensMakesNoCalls(t *testing.T) {
	d := &recordingDispatcher{}
	orders := order.NewInMemoryRepository()
	orders.Put(&order.Order{ID: "X", StoreID: "store-1", CustomerUID: "ghost"})
	svc := notify.NewService(notify.ServiceConfig{
		Resolver: recipient.NewResolver(recipient.ResolverConfig{
			Orders:   orders,
			Registry: pushtoken.NewInMemoryRepository(),
			Logger:   zerolog.Nop(),
		}),
		Dispatcher: d,
		Logger:     zerolog.Nop(),
	})

	report, err := svc.StatusChange(context.Background(), notify.StatusChangeInput{OrderID: "X", Status: "shipped"})
	require.NoError(t, err)

	assert.Equal(t, notify.Counts{}, report.Counts)
	assert.Empty(t, d.calls)
}

func TestStatusChange_MissingStatus(t *testing.T) {
	svc, _ := setup(t, &order.Order{ID: "X"})

	_, err := svc.StatusChange(context.Background(), notify.StatusChangeInput{OrderID: "X"})
	assert.ErrorIs(t, err, notify.ErrMissingStatus)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Out for delivery", notify.StatusLabel("out_for_delivery"))
	assert.Equal(t, "on_hold", notify.StatusLabel("on_hold"))
}
