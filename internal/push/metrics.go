package push

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/orderpush/orderpush/internal/push"

// Metrics holds the dispatch instruments.
type Metrics struct {
	messages     metric.Int64Counter
	laneDuration metric.Float64Histogram
}

// NewMetrics creates the dispatch instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	messages, err := meter.Int64Counter(
		"push.dispatch.messages",
		metric.WithDescription("Push messages handled per lane and result"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	laneDuration, err := meter.Float64Histogram(
		"push.dispatch.duration",
		metric.WithDescription("Duration of a lane dispatch in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{messages: messages, laneDuration: laneDuration}, nil
}

// Record records one lane result. Safe on a nil receiver.
func (m *Metrics) Record(ctx context.Context, r LaneResult, duration time.Duration) {
	if m == nil {
		return
	}

	lane := attribute.String("lane", string(r.Lane))
	add := func(n int, outcome string) {
		if n > 0 {
			m.messages.Add(ctx, int64(n), metric.WithAttributes(lane, attribute.String("outcome", outcome)))
		}
	}
	add(r.Succeeded, "succeeded")
	add(r.Failed, "failed")
	add(r.Invalid, "invalid")

	m.laneDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(lane, attribute.String("outcome", string(r.Outcome))))
}
