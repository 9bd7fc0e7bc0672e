package domain

import "time"

// CartLine is one (user, product) row with a quantity. The store enforces at most
// one line per pair via a unique constraint.
type CartLine struct {
	UserID    string    `json:"-"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// CartItem is a priced view of a cart line, with name and unit price taken from
// the current product record.
type CartItem struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int64  `json:"lineTotalCents"`
}

// CartSummary is a read-only, point-in-time priced snapshot of a user's cart.
// Lines whose product no longer exists are excluded.
type CartSummary struct {
	Items         []CartItem `json:"items"`
	SubtotalCents int64      `json:"subtotalCents"`
	DiscountCents int64      `json:"discountCents"`
	TotalCents    int64      `json:"totalCents"`
	CouponCode    string     `json:"couponCode,omitempty"`
	CouponMessage string     `json:"couponMessage,omitempty"`
}
