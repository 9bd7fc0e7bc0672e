package domain

import (
	"fmt"
	"strings"
	"time"
)

type CouponKind string

const (
	CouponPercent CouponKind = "percent"
	CouponFixed   CouponKind = "fixed"
)

// Coupon is immutable during validation. Codes are stored normalized upper-case
// and are globally unique.
type Coupon struct {
	Code string     `json:"code"`
	Kind CouponKind `json:"kind"`
	// Amount is the percent value (0-100) for percent coupons and a cent
	// amount for fixed coupons.
	Amount           int64      `json:"amount"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	Active           bool       `json:"active"`
	MinOrderCents    *int64     `json:"minOrderCents,omitempty"`
	MaxDiscountCents *int64     `json:"maxDiscountCents,omitempty"`
}

// CouponResult is the outcome of evaluating a coupon against a subtotal.
type CouponResult struct {
	Valid           bool   `json:"isValid"`
	Message         string `json:"message"`
	DiscountCents   int64  `json:"discountCents"`
	FinalTotalCents int64  `json:"finalTotalCents"`
}

// NormalizeCouponCode trims and upper-cases a coupon code for lookup and storage.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ApplyCoupon evaluates a coupon against a subtotal at the given instant. Rules run
// in order and the first failure wins. A nil coupon stands for "no code supplied or
// code unknown/inactive". The function has no side effects; the returned discount is
// always within [0, subtotal].
func ApplyCoupon(c *Coupon, subtotalCents int64, now time.Time) CouponResult {
	rejected := func(msg string) CouponResult {
		return CouponResult{Valid: false, Message: msg, DiscountCents: 0, FinalTotalCents: subtotalCents}
	}

	if c == nil {
		return rejected("No coupon code provided")
	}
	if !c.Active {
		return rejected("Invalid coupon")
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return rejected("Coupon expired")
	}
	if c.MinOrderCents != nil && subtotalCents < *c.MinOrderCents {
		return rejected(fmt.Sprintf("Minimum order amount is %s", FormatCents(*c.MinOrderCents)))
	}

	var discount int64
	switch c.Kind {
	case CouponPercent:
		discount = roundHalfUp(subtotalCents*c.Amount, 100)
		if c.MaxDiscountCents != nil && discount > *c.MaxDiscountCents {
			discount = *c.MaxDiscountCents
		}
	default: // fixed
		discount = c.Amount
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}

	return CouponResult{
		Valid:           true,
		Message:         "Coupon applied",
		DiscountCents:   discount,
		FinalTotalCents: subtotalCents - discount,
	}
}

// NoCoupon is the result of pricing a subtotal without any coupon.
func NoCoupon(subtotalCents int64) CouponResult {
	return ApplyCoupon(nil, subtotalCents, time.Time{})
}

// FormatCents renders a cent amount as a decimal string, e.g. 1999 -> "19.99".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func roundHalfUp(numerator, denominator int64) int64 {
	return (numerator + denominator/2) / denominator
}
