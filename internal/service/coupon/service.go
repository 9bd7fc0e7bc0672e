package coupon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"reshambazaar/internal/cache"
	"reshambazaar/internal/domain"
)

const cacheTTL = 5 * time.Minute

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

// Service evaluates coupon codes against subtotals. Validation itself is the
// pure rule engine in the domain package; this service adds the store lookup
// and an optional read cache in front of it.
type Service struct {
	repo   couponRepo
	cache  cache.Cache
	logger *log.Logger
	now    func() time.Time
}

// New creates a Service. The cache may be nil to disable caching.
func New(repo couponRepo, c cache.Cache, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, cache: c, logger: logger, now: time.Now}
}

// Lookup fetches the coupon snapshot for a code, normalizing it first.
// Cache failures are logged and fall through to the store.
func (s *Service) Lookup(ctx context.Context, code string) (*domain.Coupon, error) {
	code = domain.NormalizeCouponCode(code)
	if code == "" {
		return nil, domain.ErrNotFound
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, code)
		switch {
		case err == nil:
			var c domain.Coupon
			if err := json.Unmarshal([]byte(raw), &c); err == nil {
				return &c, nil
			}
			s.logger.Printf("coupon svc: bad cache entry code=%s", code)
		case !errors.Is(err, cache.ErrMiss):
			s.logger.Printf("coupon svc: cache get code=%s error=%v", code, err)
		}
	}

	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(c); err == nil {
			if err := s.cache.Set(ctx, code, string(raw), cacheTTL); err != nil {
				s.logger.Printf("coupon svc: cache set code=%s error=%v", code, err)
			}
		}
	}
	return c, nil
}

// Validate prices a subtotal against a coupon code. Unknown, inactive, expired
// or under-minimum coupons yield an invalid result with a zero discount, never
// an error; only store failures are returned as errors.
func (s *Service) Validate(ctx context.Context, code string, subtotalCents int64) (domain.CouponResult, error) {
	if domain.NormalizeCouponCode(code) == "" {
		return domain.NoCoupon(subtotalCents), nil
	}
	c, err := s.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.CouponResult{
				Valid:           false,
				Message:         "Invalid coupon",
				FinalTotalCents: subtotalCents,
			}, nil
		}
		return domain.CouponResult{}, err
	}
	return domain.ApplyCoupon(c, subtotalCents, s.now()), nil
}
