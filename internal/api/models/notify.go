// Package models provides request and response models for the notification API.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/orderpush/orderpush/internal/document"
)

// ErrInvalidAmount is returned when an amount is neither a number nor a
// numeric string.
var ErrInvalidAmount = errors.New("amount must be numeric")

// Amount is an optional monetary value that accepts JSON numbers and numeric
// strings. A JSON null leaves it unset.
type Amount struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Amount{}
		return nil
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	v, ok := document.ToNumber(raw)
	if !ok {
		return ErrInvalidAmount
	}
	*a = Amount{Value: v, Set: true}
	return nil
}

// Ptr returns the value as a pointer, or nil when unset.
func (a Amount) Ptr() *float64 {
	if !a.Set {
		return nil
	}
	v := a.Value
	return &v
}

// NewOrderRequest is the body of POST /notify/new-order.
type NewOrderRequest struct {
	OrderID     string `json:"orderId"`
	DeliveryFee Amount `json:"deliveryFee"`
	ItemsTotal  Amount `json:"itemsTotal"`
	GrandTotal  Amount `json:"grandTotal"`
}

// StatusChangeRequest is the body of POST /notify/status-change.
// NewStatus is accepted as an alias of Status.
type StatusChangeRequest struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	NewStatus string `json:"newStatus"`
}

// EffectiveStatus returns the trimmed Status, falling back to NewStatus when
// Status is blank.
func (r StatusChangeRequest) EffectiveStatus() string {
	if status := strings.TrimSpace(r.Status); status != "" {
		return status
	}
	return strings.TrimSpace(r.NewStatus)
}

// Counts is the number of tokens resolved per recipient class.
type Counts struct {
	Admin    int `json:"admin"`
	Owner    int `json:"owner"`
	Customer int `json:"customer"`
}

// NotifyResponse is the success response of both notification hooks.
type NotifyResponse struct {
	OK     bool   `json:"ok"`
	Counts Counts `json:"counts"`
}
