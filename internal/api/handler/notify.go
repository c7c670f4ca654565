package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/orderpush/orderpush/internal/api/middleware"
	"github.com/orderpush/orderpush/internal/api/models"
	"github.com/orderpush/orderpush/internal/api/response"
	"github.com/orderpush/orderpush/internal/notify"
	"github.com/orderpush/orderpush/internal/order"
)

// Notifier sends the notifications of an order event.
type Notifier interface {
	NewOrder(ctx context.Context, in notify.NewOrderInput) (*notify.Report, error)
	StatusChange(ctx context.Context, in notify.StatusChangeInput) (*notify.Report, error)
}

// NotifyHandler handles the notification hooks.
type NotifyHandler struct {
	notifier Notifier
	logger   zerolog.Logger
}

// NewNotifyHandler creates a new NotifyHandler.
func NewNotifyHandler(notifier Notifier, logger zerolog.Logger) *NotifyHandler {
	return &NotifyHandler{notifier: notifier, logger: logger}
}

// NewOrder handles POST /notify/new-order.
func (h *NotifyHandler) NewOrder(w http.ResponseWriter, r *http.Request) {
	var input models.NewOrderRequest
	if !decode(w, r, &input) {
		return
	}

	report, err := h.notifier.NewOrder(r.Context(), notify.NewOrderInput{
		OrderID:     input.OrderID,
		DeliveryFee: input.DeliveryFee.Ptr(),
		ItemsTotal:  input.ItemsTotal.Ptr(),
		GrandTotal:  input.GrandTotal.Ptr(),
	})
	h.respond(w, r, "new-order", report, err)
}

// StatusChange handles POST /notify/status-change.
func (h *NotifyHandler) StatusChange(w http.ResponseWriter, r *http.Request) {
	var input models.StatusChangeRequest
	if !decode(w, r, &input) {
		return
	}

	report, err := h.notifier.StatusChange(r.Context(), notify.StatusChangeInput{
		OrderID: input.OrderID,
		Status:  input.EffectiveStatus(),
	})
	h.respond(w, r, "status-change", report, err)
}

// decode reads a JSON body into dst. An empty body decodes to the zero value.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(w, models.NewProblem(http.StatusRequestEntityTooLarge,
			"request body too large", middleware.GetRequestID(r.Context())))
		return false
	}
	if errors.Is(err, models.ErrInvalidAmount) {
		response.BadRequest(w, r, err.Error())
		return false
	}
	response.BadRequest(w, r, "invalid JSON body")
	return false
}

func (h *NotifyHandler) respond(w http.ResponseWriter, r *http.Request, hook string, report *notify.Report, err error) {
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusOK, models.NotifyResponse{
			OK: true,
			Counts: models.Counts{
				Admin:    report.Counts.Admin,
				Owner:    report.Counts.Owner,
				Customer: report.Counts.Customer,
			},
		})
	case notify.IsValidation(err):
		response.BadRequest(w, r, err.Error())
	case errors.Is(err, order.ErrOrderNotFound):
		response.NotFound(w, r, "order not found")
	default:
		h.logger.Error().Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("hook", hook).
			Str("caller", middleware.GetCaller(r.Context())).
			Msg("notification failed")
		response.InternalError(w, r, err.Error())
	}
}
