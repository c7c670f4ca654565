// Package order reads order records and derives their monetary summary.
package order

import (
	"errors"

	"github.com/orderpush/orderpush/internal/document"
)

// Repository errors.
var (
	ErrOrderNotFound = errors.New("order not found")
)

// Collection is the document collection (or table) holding orders.
const Collection = "orders"

// Customer is the contact block embedded in an order.
type Customer struct {
	FullName string
	Phone    string
}

// LineItem is one order line. Quantity fields are kept as read so the
// fallback chain can be applied by EffectiveQuantity.
type LineItem struct {
	Price    float64
	Qty      *float64
	WeightKg *float64
	Kg       *float64
	Quantity *float64
}

// Order is an order record owned by the store application. Optional numeric
// fields are nil when absent from the record.
type Order struct {
	ID          string
	StoreID     string
	CustomerUID string
	Customer    Customer
	Status      string
	Total       *float64
	ItemsTotal  *float64
	DeliveryFee *float64
	Lines       []LineItem
}

// ShortID returns the last six characters of the order ID for display.
func (o *Order) ShortID() string {
	if len(o.ID) <= 6 {
		return o.ID
	}
	return o.ID[len(o.ID)-6:]
}

// ItemCount returns the number of lines on the order.
func (o *Order) ItemCount() int {
	return len(o.Lines)
}

// FromDocument builds an Order from a raw document.
func FromDocument(id string, data document.Fields) *Order {
	o := &Order{
		ID:          id,
		StoreID:     data.String("storeId"),
		CustomerUID: data.String("customerUid"),
		Status:      data.String("status"),
		Total:       data.NumberPtr("total"),
		ItemsTotal:  data.NumberPtr("itemsTotal"),
		DeliveryFee: data.NumberPtr("deliveryFee"),
	}

	if customer := data.Map("customer"); customer != nil {
		o.Customer = Customer{
			FullName: customer.String("fullName"),
			Phone:    customer.String("phone"),
		}
	}

	for _, raw := range data.Slice("lines") {
		line := document.AsFields(raw)
		if line == nil {
			continue
		}
		price, _ := line.Number("price")
		o.Lines = append(o.Lines, LineItem{
			Price:    price,
			Qty:      line.NumberPtr("qty"),
			WeightKg: line.NumberPtr("weightKg"),
			Kg:       line.NumberPtr("kg"),
			Quantity: line.NumberPtr("quantity"),
		})
	}

	return o
}
