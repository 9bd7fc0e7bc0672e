package order

import (
	"context"
	"time"

	"reshambazaar/internal/domain"
)

// CreateFromCartInput carries everything the checkout commit needs. Coupon is
// the snapshot loaded before the transaction, nil when no code was supplied or
// the code did not resolve.
type CreateFromCartInput struct {
	OrderID         string
	UserID          string
	Coupon          *domain.Coupon
	ShippingAddress *string
	Now             time.Time
}

type Repository interface {
	// CreateFromCart atomically converts the user's cart into an order: it locks
	// and prices the cart lines, applies the coupon to the locked subtotal,
	// persists the order with its lines and deletes exactly the lines it
	// consumed. Returns domain.ErrEmptyCart, with nothing mutated, when the
	// priced snapshot has no lines.
	CreateFromCart(ctx context.Context, in CreateFromCartInput) (*domain.Order, error)
	// ListByUser returns the user's orders with lines, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus moves an order from one status to another. Returns
	// domain.ErrConflict when the order is no longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
}
