// Package notify turns order events into push notifications for the admins,
// store owners and customer of an order.
package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/orderpush/orderpush/internal/order"
	"github.com/orderpush/orderpush/internal/push"
	"github.com/orderpush/orderpush/internal/recipient"
)

// Validation errors.
var (
	ErrMissingOrderID = errors.New("orderId is required")
	ErrMissingStatus  = errors.New("status is required")
)

// IsValidation reports whether err is an input validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingOrderID) || errors.Is(err, ErrMissingStatus)
}

// Resolver resolves the recipients of an order.
type Resolver interface {
	Resolve(ctx context.Context, orderID string) (*recipient.Recipients, error)
}

// Dispatcher delivers one message to a set of tokens.
type Dispatcher interface {
	Dispatch(ctx context.Context, tokens []string, title, body string, payload map[string]any) push.Result
}

// NewOrderInput describes a new order event. Totals override the record.
type NewOrderInput struct {
	OrderID     string
	DeliveryFee *float64
	ItemsTotal  *float64
	GrandTotal  *float64
}

// StatusChangeInput describes a status change event.
type StatusChangeInput struct {
	OrderID string
	Status  string
}

// Counts is the number of tokens resolved per recipient class.
type Counts struct {
	Admin    int `json:"admin"`
	Owner    int `json:"owner"`
	Customer int `json:"customer"`
}

// Report is the outcome of one event.
type Report struct {
	Counts  Counts
	Results map[string]push.Result
}

// Service notifies order recipients.
type Service struct {
	resolver   Resolver
	dispatcher Dispatcher
	logger     zerolog.Logger
}

// ServiceConfig holds the dependencies of a Service.
type ServiceConfig struct {
	Resolver   Resolver
	Dispatcher Dispatcher
	Logger     zerolog.Logger
}

// NewService creates a new Service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		resolver:   cfg.Resolver,
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
	}
}

type delivery struct {
	class   string
	tokens  []string
	content Content
}

// NewOrder notifies the owner, admin and customer of a newly placed order.
func (s *Service) NewOrder(ctx context.Context, in NewOrderInput) (*Report, error) {
	orderID := strings.TrimSpace(in.OrderID)
	if orderID == "" {
		return nil, ErrMissingOrderID
	}

	rcpt, err := s.resolver.Resolve(ctx, orderID)
	if err != nil {
		return nil, err
	}

	totals := order.ComputeTotals(rcpt.Order, order.Overrides{
		ItemsTotal:  in.ItemsTotal,
		DeliveryFee: in.DeliveryFee,
		GrandTotal:  in.GrandTotal,
	})
	content := renderNewOrder(rcpt.Order, totals)
	payload := map[string]any{
		"type":       EventNewOrder,
		"orderId":    orderID,
		"grandTotal": order.FormatAmount(totals.GrandTotal),
	}

	return s.deliver(ctx, EventNewOrder, orderID, rcpt, payload, []delivery{
		{class: "owner", tokens: rcpt.Owner, content: content.owner},
		{class: "admin", tokens: rcpt.Admin, content: content.admin},
		{class: "customer", tokens: rcpt.Customer, content: content.customer},
	}), nil
}

// StatusChange notifies the owner, admin and customer of a status change.
func (s *Service) StatusChange(ctx context.Context, in StatusChangeInput) (*Report, error) {
	orderID := strings.TrimSpace(in.OrderID)
	if orderID == "" {
		return nil, ErrMissingOrderID
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, ErrMissingStatus
	}

	rcpt, err := s.resolver.Resolve(ctx, orderID)
	if err != nil {
		return nil, err
	}

	content := renderStatusChange(rcpt.Order, status)
	payload := map[string]any{
		"type":    EventStatusChange,
		"orderId": orderID,
		"status":  status,
	}

	return s.deliver(ctx, EventStatusChange, orderID, rcpt, payload, []delivery{
		{class: "owner", tokens: rcpt.Owner, content: content.staff},
		{class: "admin", tokens: rcpt.Admin, content: content.staff},
		{class: "customer", tokens: rcpt.Customer, content: content.customer},
	}), nil
}

// deliver dispatches each class in order, waiting for one before the next.
func (s *Service) deliver(ctx context.Context, event, orderID string, rcpt *recipient.Recipients, payload map[string]any, deliveries []delivery) *Report {
	report := &Report{
		Counts: Counts{
			Admin:    len(rcpt.Admin),
			Owner:    len(rcpt.Owner),
			Customer: len(rcpt.Customer),
		},
		Results: make(map[string]push.Result, len(deliveries)),
	}

	for _, d := range deliveries {
		if len(d.tokens) == 0 {
			continue
		}
		res := s.dispatcher.Dispatch(ctx, d.tokens, d.content.Title, d.content.Body, payload)
		report.Results[d.class] = res

		evt := s.logger.Info()
		if res.Failed() {
			evt = s.logger.Warn()
		}
		evt.Str("event", event).
			Str("order_id", orderID).
			Str("class", d.class).
			Int("tokens", len(d.tokens)).
			Str("expo", string(res.Expo.Outcome)).
			Str("fcm", string(res.FCM.Outcome)).
			Msg("notification dispatched")
	}

	return report
}
