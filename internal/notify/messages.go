package notify

import (
	"fmt"

	"github.com/orderpush/orderpush/internal/order"
)

// Event types carried in the notification payload.
const (
	EventNewOrder     = "new_order"
	EventStatusChange = "status_change"
)

var statusLabels = map[string]string{
	"pending":          "Pending",
	"confirmed":        "Confirmed",
	"preparing":        "Preparing",
	"ready":            "Ready for pickup",
	"shipped":          "Shipped",
	"out_for_delivery": "Out for delivery",
	"delivered":        "Delivered",
	"cancelled":        "Cancelled",
}

// StatusLabel returns the display label of an order status. Unknown statuses
// are returned verbatim.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// Content is a rendered title and body.
type Content struct {
	Title string
	Body  string
}

type newOrderContent struct {
	owner, admin, customer Content
}

func renderNewOrder(o *order.Order, t order.Totals) newOrderContent {
	short := o.ShortID()
	grand := order.FormatAmount(t.GrandTotal)

	customer := o.Customer.FullName
	if customer == "" {
		customer = "Customer"
	}

	return newOrderContent{
		owner: Content{
			Title: "New order #" + short,
			Body:  fmt.Sprintf("%s · %s · %d items", customer, grand, o.ItemCount()),
		},
		admin: Content{
			Title: "New order at store " + o.StoreID,
			Body:  fmt.Sprintf("Order #%s · %s", short, grand),
		},
		customer: Content{
			Title: "Order received",
			Body:  fmt.Sprintf("Your order #%s was placed. Total %s", short, grand),
		},
	}
}

type statusContent struct {
	staff, customer Content
}

func renderStatusChange(o *order.Order, status string) statusContent {
	short := o.ShortID()
	label := StatusLabel(status)

	return statusContent{
		staff: Content{
			Title: fmt.Sprintf("Order #%s updated", short),
			Body:  "Status changed to " + label,
		},
		customer: Content{
			Title: "Order update",
			Body:  fmt.Sprintf("Your order #%s is now %s", short, label),
		},
	}
}
