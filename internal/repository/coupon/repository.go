package coupon

import (
	"context"

	"reshambazaar/internal/domain"
)

type Repository interface {
	// GetByCode looks up a coupon by its normalized (upper-case) code.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}
