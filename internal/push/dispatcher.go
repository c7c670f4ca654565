package push

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/orderpush/orderpush/internal/push"

// Sender delivers one lane. Implementations never return errors; failures are
// reported through the LaneResult counts.
type Sender interface {
	Send(ctx context.Context, tokens []string, msg Message) LaneResult
}

// DispatcherConfig holds the dependencies of a Dispatcher.
// A nil lane sender fails every token routed to that lane.
type DispatcherConfig struct {
	Expo    Sender
	FCM     Sender
	Metrics *Metrics
	Logger  zerolog.Logger
}

// Dispatcher routes tokens to their lane and delivers one message to each.
type Dispatcher struct {
	expo    Sender
	fcm     Sender
	metrics *Metrics
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		expo:    cfg.Expo,
		fcm:     cfg.FCM,
		metrics: cfg.Metrics,
		tracer:  otel.Tracer(tracerName),
		logger:  cfg.Logger,
	}
}

// Dispatch sends title and body with payload to every token. Lanes run
// sequentially, Expo first; an empty lane makes no provider call. Provider
// failures never surface as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, tokens []string, title, body string, payload map[string]any) Result {
	ctx, span := d.tracer.Start(ctx, "push.Dispatch",
		trace.WithAttributes(attribute.Int("push.tokens", len(tokens))))
	defer span.End()

	expoTokens, fcmTokens := Classify(tokens)
	msg := Message{Title: title, Body: body, Data: StringifyData(payload)}

	result := Result{
		Expo: d.runLane(ctx, LaneExpo, d.expo, expoTokens, msg),
		FCM:  d.runLane(ctx, LaneFCM, d.fcm, fcmTokens, msg),
	}

	span.SetAttributes(
		attribute.String("push.expo.outcome", string(result.Expo.Outcome)),
		attribute.String("push.fcm.outcome", string(result.FCM.Outcome)),
	)
	return result
}

func (d *Dispatcher) runLane(ctx context.Context, lane Lane, sender Sender, tokens []string, msg Message) LaneResult {
	if len(tokens) == 0 {
		return LaneResult{Lane: lane, Outcome: OutcomeSkipped}
	}

	start := time.Now()
	var res LaneResult
	if sender == nil {
		res = LaneResult{Lane: lane, Attempted: len(tokens), Failed: len(tokens)}
		d.logger.Error().Str("lane", string(lane)).Int("tokens", len(tokens)).Msg("lane not configured")
	} else {
		res = sender.Send(ctx, tokens, msg)
		res.Lane = lane
	}
	res.settle()

	d.metrics.Record(ctx, res, time.Since(start))

	if res.Failed > 0 || res.Invalid > 0 {
		d.logger.Warn().
			Str("lane", string(lane)).
			Str("outcome", string(res.Outcome)).
			Int("attempted", res.Attempted).
			Int("failed", res.Failed).
			Int("invalid", res.Invalid).
			Msg("push lane incomplete")
	}
	return res
}
