package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpush/orderpush/internal/notify"
	"github.com/orderpush/orderpush/internal/order"
	"github.com/orderpush/orderpush/internal/worker"
)

type fakeNotifier struct {
	newOrders []notify.NewOrderInput
	changes   []notify.StatusChangeInput
	err       error
}

func (f *fakeNotifier) NewOrder(_ context.Context, in notify.NewOrderInput) (*notify.Report, error) {
	f.newOrders = append(f.newOrders, in)
	if f.err != nil {
		return nil, f.err
	}
	return &notify.Report{Counts: notify.Counts{Owner: 1}}, nil
}

func (f *fakeNotifier) StatusChange(_ context.Context, in notify.StatusChangeInput) (*notify.Report, error) {
	f.changes = append(f.changes, in)
	if f.err != nil {
		return nil, f.err
	}
	return &notify.Report{Counts: notify.Counts{Customer: 1}}, nil
}

func TestProcessor_NewOrder(t *testing.T) {
	n := &fakeNotifier{}
	p := worker.NewProcessor(n, zerolog.Nop())

	d, err := p.Process(context.Background(),
		[]byte(`{"type":"new_order","orderId":" o1 ","deliveryFee":"15","itemsTotal":50}`))

	require.NoError(t, err)
	assert.Equal(t, worker.Ack, d)
	require.Len(t, n.newOrders, 1)

	in := n.newOrders[0]
	assert.Equal(t, "o1", in.OrderID)
	require.NotNil(t, in.DeliveryFee)
	assert.InDelta(t, 15.0, *in.DeliveryFee, 1e-9)
	require.NotNil(t, in.ItemsTotal)
	assert.InDelta(t, 50.0, *in.ItemsTotal, 1e-9)
	assert.Nil(t, in.GrandTotal)
}

func TestProcessor_StatusChange(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"status", `{"type":"status_change","orderId":"o1","status":"ready"}`, "ready"},
		{"newStatus alias", `{"type":"status_change","orderId":"o1","newStatus":"delivered"}`, "delivered"},
		{"status wins", `{"type":"status_change","orderId":"o1","status":"ready","newStatus":"x"}`, "ready"},
		{"blank status falls back", `{"type":"status_change","orderId":"o1","status":"  ","newStatus":"shipped"}`, "shipped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fakeNotifier{}
			p := worker.NewProcessor(n, zerolog.Nop())

			d, err := p.Process(context.Background(), []byte(tt.payload))

			require.NoError(t, err)
			assert.Equal(t, worker.Ack, d)
			require.Len(t, n.changes, 1)
			assert.Equal(t, tt.want, n.changes[0].Status)
		})
	}
}

func TestProcessor_Dispositions(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		err     error
		want    worker.Disposition
	}{
		{"malformed json", `{not json`, nil, worker.Ack},
		{"null payload", `null`, nil, worker.Ack},
		{"unknown type", `{"type":"refund","orderId":"o1"}`, nil, worker.Ack},
		{"validation", `{"type":"new_order"}`, notify.ErrMissingOrderID, worker.Ack},
		{"not found", `{"type":"new_order","orderId":"o1"}`, order.ErrOrderNotFound, worker.Ack},
		{"store failure", `{"type":"status_change","orderId":"o1","status":"ready"}`, errors.New("unavailable"), worker.Nack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := worker.NewProcessor(&fakeNotifier{err: tt.err}, zerolog.Nop())

			d, err := p.Process(context.Background(), []byte(tt.payload))

			assert.Error(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestProcessor_NewOrderRejectsNonNumericAmount(t *testing.T) {
	for _, key := range []string{"deliveryFee", "itemsTotal", "grandTotal"} {
		t.Run(key, func(t *testing.T) {
			n := &fakeNotifier{}
			p := worker.NewProcessor(n, zerolog.Nop())

			d, err := p.Process(context.Background(),
				[]byte(`{"type":"new_order","orderId":"o1","`+key+`":"abc"}`))

			assert.ErrorIs(t, err, worker.ErrInvalidAmount)
			assert.Contains(t, err.Error(), key)
			assert.Equal(t, worker.Ack, d)
			assert.Empty(t, n.newOrders)
		})
	}
}

func TestProcessor_NewOrderNullAmountIsUnset(t *testing.T) {
	n := &fakeNotifier{}
	p := worker.NewProcessor(n, zerolog.Nop())

	d, err := p.Process(context.Background(),
		[]byte(`{"type":"new_order","orderId":"o1","deliveryFee":null,"grandTotal":"99.5"}`))

	require.NoError(t, err)
	assert.Equal(t, worker.Ack, d)
	require.Len(t, n.newOrders, 1)
	assert.Nil(t, n.newOrders[0].DeliveryFee)
	require.NotNil(t, n.newOrders[0].GrandTotal)
	assert.InDelta(t, 99.5, *n.newOrders[0].GrandTotal, 1e-9)
}

func TestProcessor_UnknownEvent(t *testing.T) {
	p := worker.NewProcessor(&fakeNotifier{}, zerolog.Nop())

	_, err := p.Process(context.Background(), []byte(`{"type":"refund"}`))

	assert.ErrorIs(t, err, worker.ErrUnknownEvent)
}

func TestDisposition_String(t *testing.T) {
	assert.Equal(t, "ack", worker.Ack.String())
	assert.Equal(t, "nack", worker.Nack.String())
}
