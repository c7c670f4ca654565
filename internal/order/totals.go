package order

import "strconv"

// DefaultDeliveryFee applies when neither the caller nor the record supplies one.
const DefaultDeliveryFee = 20.0

// Overrides are caller-supplied values that take precedence over the record.
type Overrides struct {
	ItemsTotal  *float64
	DeliveryFee *float64
	GrandTotal  *float64
}

// Totals is the monetary summary of an order.
type Totals struct {
	ItemsTotal  float64
	DeliveryFee float64
	GrandTotal  float64
}

// quantityFields lists the line quantity fields in precedence order.
var quantityFields = []func(LineItem) *float64{
	func(l LineItem) *float64 { return l.Qty },
	func(l LineItem) *float64 { return l.WeightKg },
	func(l LineItem) *float64 { return l.Kg },
	func(l LineItem) *float64 { return l.Quantity },
}

// EffectiveQuantity returns the first present quantity field, or 1.
func (l LineItem) EffectiveQuantity() float64 {
	for _, field := range quantityFields {
		if q := field(l); q != nil {
			return *q
		}
	}
	return 1
}

// Subtotal returns price times effective quantity.
func (l LineItem) Subtotal() float64 {
	return l.Price * l.EffectiveQuantity()
}

// LinesTotal sums the line subtotals.
func (o *Order) LinesTotal() float64 {
	var sum float64
	for _, l := range o.Lines {
		sum += l.Subtotal()
	}
	return sum
}

// ComputeTotals derives items total, delivery fee and grand total.
//
// Precedence is overrides, then record fields, then line summation. The
// record's total is treated as inclusive of delivery only when the record also
// carries deliveryFee; every caller goes through this rule.
func ComputeTotals(o *Order, ov Overrides) Totals {
	var t Totals

	switch {
	case ov.ItemsTotal != nil:
		t.ItemsTotal = *ov.ItemsTotal
	case o.ItemsTotal != nil:
		t.ItemsTotal = *o.ItemsTotal
	default:
		t.ItemsTotal = o.LinesTotal()
	}

	switch {
	case ov.DeliveryFee != nil:
		t.DeliveryFee = *ov.DeliveryFee
	case o.DeliveryFee != nil:
		t.DeliveryFee = *o.DeliveryFee
	default:
		t.DeliveryFee = DefaultDeliveryFee
	}

	switch {
	case ov.GrandTotal != nil:
		t.GrandTotal = *ov.GrandTotal
	case o.Total != nil && o.DeliveryFee != nil:
		t.GrandTotal = *o.Total
	default:
		t.GrandTotal = t.ItemsTotal + t.DeliveryFee
	}

	return t
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
