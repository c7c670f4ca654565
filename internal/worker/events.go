// Package worker consumes order events from Pub/Sub and sends their
// notifications.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/orderpush/orderpush/internal/document"
	"github.com/orderpush/orderpush/internal/notify"
	"github.com/orderpush/orderpush/internal/order"
)

// Event types.
const (
	EventNewOrder     = notify.EventNewOrder
	EventStatusChange = notify.EventStatusChange
)

// Event errors. Both are acked.
var (
	ErrUnknownEvent  = errors.New("unknown event type")
	ErrInvalidAmount = errors.New("amount must be numeric")
)

// Notifier sends the notifications of an order event.
type Notifier interface {
	NewOrder(ctx context.Context, in notify.NewOrderInput) (*notify.Report, error)
	StatusChange(ctx context.Context, in notify.StatusChangeInput) (*notify.Report, error)
}

// Disposition tells the subscriber what to do with a message.
type Disposition int

const (
	// Ack removes the message from the subscription.
	Ack Disposition = iota
	// Nack asks Pub/Sub to redeliver the message.
	Nack
)

func (d Disposition) String() string {
	if d == Nack {
		return "nack"
	}
	return "ack"
}

// Processor turns event payloads into notifications.
type Processor struct {
	notifier Notifier
	logger   zerolog.Logger
}

// NewProcessor creates a new Processor.
func NewProcessor(notifier Notifier, logger zerolog.Logger) *Processor {
	return &Processor{notifier: notifier, logger: logger}
}

// Process handles one event payload. Malformed, invalid and unknown-order
// events are acked since redelivery cannot fix them; other failures are nacked.
func (p *Processor) Process(ctx context.Context, data []byte) (Disposition, error) {
	fields, err := parseEvent(data)
	if err != nil {
		return Ack, err
	}

	eventType := fields.String("type")
	var report *notify.Report
	switch eventType {
	case EventNewOrder:
		in := notify.NewOrderInput{OrderID: fields.String("orderId")}
		overrides := []struct {
			key string
			dst **float64
		}{
			{"deliveryFee", &in.DeliveryFee},
			{"itemsTotal", &in.ItemsTotal},
			{"grandTotal", &in.GrandTotal},
		}
		for _, o := range overrides {
			if *o.dst, err = amount(fields, o.key); err != nil {
				return Ack, err
			}
		}
		report, err = p.notifier.NewOrder(ctx, in)
	case EventStatusChange:
		status := fields.String("status")
		if status == "" {
			status = fields.String("newStatus")
		}
		report, err = p.notifier.StatusChange(ctx, notify.StatusChangeInput{
			OrderID: fields.String("orderId"),
			Status:  status,
		})
	default:
		return Ack, fmt.Errorf("%w: %q", ErrUnknownEvent, eventType)
	}

	switch {
	case err == nil:
	case notify.IsValidation(err), errors.Is(err, order.ErrOrderNotFound):
		return Ack, err
	default:
		return Nack, err
	}

	p.logger.Info().
		Str("event", eventType).
		Str("order_id", fields.String("orderId")).
		Int("admin", report.Counts.Admin).
		Int("owner", report.Counts.Owner).
		Int("customer", report.Counts.Customer).
		Msg("event processed")
	return Ack, nil
}

// amount reads an optional override. Absent and null leave it unset; any
// other non-numeric value is rejected.
func amount(fields document.Fields, key string) (*float64, error) {
	if !fields.Has(key) {
		return nil, nil
	}
	v, ok := document.ToNumber(fields[key])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, key)
	}
	return &v, nil
}

func parseEvent(data []byte) (document.Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields document.Fields
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}
	if fields == nil {
		return nil, errors.New("parse event: empty payload")
	}
	return fields, nil
}
