package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus maps a case-insensitive string onto a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return OrderPending, true
	case "shipped":
		return OrderShipped, true
	case "delivered":
		return OrderDelivered, true
	case "cancelled":
		return OrderCancelled, true
	}
	return "", false
}

// Terminal reports whether no further transition is allowed from the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransition reports whether the status may move to next. Orders advance
// Pending -> Shipped -> Delivered; cancellation is allowed from any
// non-terminal state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case OrderShipped:
		return s == OrderPending
	case OrderDelivered:
		return s == OrderShipped
	case OrderCancelled:
		return true
	}
	return false
}

// Order is an immutable priced record built from a cart snapshot at checkout.
// Only Status may change afterwards, within the transitions above.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"-"`
	CreatedAt       time.Time   `json:"createdAt"`
	SubtotalCents   int64       `json:"subtotalCents"`
	DiscountCents   int64       `json:"discountCents"`
	TotalCents      int64       `json:"totalCents"`
	CouponCode      *string     `json:"couponCode,omitempty"`
	Status          OrderStatus `json:"status"`
	ShippingAddress *string     `json:"shippingAddress,omitempty"`
	Lines           []OrderLine `json:"lines"`
}

// OrderLine carries the product name and unit price copied at checkout time, so
// later catalog changes never alter historical orders.
type OrderLine struct {
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// Address is the structured shipping address supplied at checkout. It is
// rendered into a denormalized string on the order, captured by copy.
type Address struct {
	FullName string `json:"fullName"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	Phone    string `json:"phone"`
}

// Render flattens the address into the single-line form stored on orders.
func (a Address) Render() string {
	var b strings.Builder
	b.WriteString(a.FullName)
	b.WriteString(", ")
	b.WriteString(a.Line1)
	if strings.TrimSpace(a.Line2) != "" {
		b.WriteString(", ")
		b.WriteString(a.Line2)
	}
	b.WriteString(", ")
	b.WriteString(a.City)
	b.WriteString(" - ")
	b.WriteString(a.Pincode)
	b.WriteString(", ")
	b.WriteString(a.Phone)
	return b.String()
}
