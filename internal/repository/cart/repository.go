package cart

import (
	"context"

	"reshambazaar/internal/domain"
)

type Repository interface {
	// Upsert creates the (user, product) line or increments its quantity when it
	// already exists. The unique constraint on the pair guarantees a single row.
	Upsert(ctx context.Context, userID, productID string, quantity int) error
	// SetQuantity replaces the quantity of an existing line.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	// Delete removes the line if present; absent lines are a no-op.
	Delete(ctx context.Context, userID, productID string) error
	// Clear removes all lines for the user.
	Clear(ctx context.Context, userID string) error
	// Snapshot returns the user's lines joined with current product data, in the
	// order they were added. Lines whose product vanished are excluded.
	Snapshot(ctx context.Context, userID string) ([]domain.CartItem, error)
	// Count returns the sum of quantities across the user's lines.
	Count(ctx context.Context, userID string) (int, error)
}
