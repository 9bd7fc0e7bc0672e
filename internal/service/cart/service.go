package cart

import (
	"context"
	"errors"
	"fmt"

	"reshambazaar/internal/domain"
)

type cartRepo interface {
	Upsert(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Delete(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	Snapshot(ctx context.Context, userID string) ([]domain.CartItem, error)
	Count(ctx context.Context, userID string) (int, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type couponValidator interface {
	Validate(ctx context.Context, code string, subtotalCents int64) (domain.CouponResult, error)
}

// Service owns cart mutation and the priced snapshot. All operations are
// scoped to a single user passed explicitly.
type Service struct {
	repo     cartRepo
	products productRepo
	coupons  couponValidator
}

func New(repo cartRepo, products productRepo, coupons couponValidator) *Service {
	return &Service{repo: repo, products: products, coupons: coupons}
}

// Add puts quantity of a product into the user's cart, incrementing an
// existing line. Quantities below 1 are clamped to 1.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) error {
	if productID == "" {
		return fmt.Errorf("%w: product id required", domain.ErrInvalidInput)
	}
	if quantity < 1 {
		quantity = 1
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	return retryOnConflict(func() error {
		return s.repo.Upsert(ctx, userID, productID, quantity)
	})
}

// SetQuantity replaces the quantity of a line. A quantity of zero or less
// deletes the line, as a no-op when it is already gone.
func (s *Service) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if productID == "" {
		return fmt.Errorf("%w: product id required", domain.ErrInvalidInput)
	}
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}
	return retryOnConflict(func() error {
		return s.repo.SetQuantity(ctx, userID, productID, quantity)
	})
}

// Remove deletes a line; removing an absent line is a no-op.
func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	if productID == "" {
		return fmt.Errorf("%w: product id required", domain.ErrInvalidInput)
	}
	return retryOnConflict(func() error {
		return s.repo.Delete(ctx, userID, productID)
	})
}

// Clear drops every line in the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}

// Count returns the summed quantity across the user's cart lines.
func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.Count(ctx, userID)
}

// Snapshot returns the point-in-time priced view of the cart with no coupon
// applied. An empty cart yields an empty snapshot with subtotal zero.
func (s *Service) Snapshot(ctx context.Context, userID string) (*domain.CartSummary, error) {
	items, err := s.repo.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	var subtotal int64
	for _, it := range items {
		subtotal += it.LineTotalCents
	}
	return &domain.CartSummary{
		Items:         items,
		SubtotalCents: subtotal,
		TotalCents:    subtotal,
	}, nil
}

// PricedSummary is Snapshot plus a coupon preview. An invalid coupon leaves
// the discount at zero and reports why in CouponMessage.
func (s *Service) PricedSummary(ctx context.Context, userID, couponCode string) (*domain.CartSummary, error) {
	summary, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if domain.NormalizeCouponCode(couponCode) == "" {
		return summary, nil
	}

	result, err := s.coupons.Validate(ctx, couponCode, summary.SubtotalCents)
	if err != nil {
		return nil, err
	}
	summary.DiscountCents = result.DiscountCents
	summary.TotalCents = result.FinalTotalCents
	summary.CouponMessage = result.Message
	if result.Valid {
		summary.CouponCode = domain.NormalizeCouponCode(couponCode)
	}
	return summary, nil
}

// retryOnConflict re-runs a naturally idempotent mutation once when the store
// reports a uniqueness or transactional conflict.
func retryOnConflict(op func() error) error {
	err := op()
	if errors.Is(err, domain.ErrConflict) {
		return op()
	}
	return err
}
