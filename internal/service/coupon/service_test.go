package coupon

import (
	"context"
	"errors"
	"testing"
	"time"

	"reshambazaar/internal/cache"
	"reshambazaar/internal/domain"
)

type stubRepo struct {
	coupon   *domain.Coupon
	err      error
	calls    int
	lastCode string
}

func (s *stubRepo) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	s.calls++
	s.lastCode = code
	return s.coupon, s.err
}

type fakeCache struct {
	entries map[string]string
	getErr  error
	setErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = value
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestValidateBlankCode(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil, nil)
	res, err := svc.Validate(context.Background(), "   ", 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid || res.DiscountCents != 0 || res.FinalTotalCents != 2000 {
		t.Fatalf("unexpected result %+v", res)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no lookup for blank code")
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc := New(&stubRepo{err: domain.ErrNotFound}, nil, nil)
	res, err := svc.Validate(context.Background(), "NOPE", 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid || res.Message != "Invalid coupon" || res.FinalTotalCents != 2000 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestValidateStoreError(t *testing.T) {
	svc := New(&stubRepo{err: errors.New("boom")}, nil, nil)
	if _, err := svc.Validate(context.Background(), "ANY", 2000); err == nil {
		t.Fatalf("expected store error to surface")
	}
}

func TestValidateNormalizesCode(t *testing.T) {
	repo := &stubRepo{coupon: &domain.Coupon{Code: "WELCOME10", Kind: domain.CouponPercent, Amount: 10, Active: true}}
	svc := New(repo, nil, nil)
	res, err := svc.Validate(context.Background(), "  welcome10 ", 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCode != "WELCOME10" {
		t.Fatalf("lookup used code %q", repo.lastCode)
	}
	if !res.Valid || res.DiscountCents != 200 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestValidateUsesInjectedClock(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &stubRepo{coupon: &domain.Coupon{
		Code: "OFF", Kind: domain.CouponFixed, Amount: 100, Active: true, ExpiresAt: &expiry,
	}}
	svc := New(repo, nil, nil)

	svc.now = func() time.Time { return expiry.Add(-time.Minute) }
	res, err := svc.Validate(context.Background(), "OFF", 2000)
	if err != nil || !res.Valid {
		t.Fatalf("expected valid before expiry: %+v err=%v", res, err)
	}

	svc.now = func() time.Time { return expiry.Add(time.Minute) }
	res, err = svc.Validate(context.Background(), "OFF", 2000)
	if err != nil || res.Valid {
		t.Fatalf("expected expired after expiry: %+v err=%v", res, err)
	}
}

func TestLookupPopulatesAndHitsCache(t *testing.T) {
	repo := &stubRepo{coupon: &domain.Coupon{
		Code: "WELCOME10", Kind: domain.CouponPercent, Amount: 10, Active: true,
		MinOrderCents: int64Ptr(500), MaxDiscountCents: int64Ptr(1500),
	}}
	c := newFakeCache()
	svc := New(repo, c, nil)

	first, err := svc.Lookup(context.Background(), "welcome10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 || c.sets != 1 {
		t.Fatalf("expected one store hit and one cache set, got %d/%d", repo.calls, c.sets)
	}

	second, err := svc.Lookup(context.Background(), "WELCOME10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected cache hit to skip the store, calls=%d", repo.calls)
	}
	if second.Code != first.Code || second.Amount != first.Amount || *second.MaxDiscountCents != *first.MaxDiscountCents {
		t.Fatalf("cache roundtrip mismatch: %+v vs %+v", second, first)
	}
}

func TestLookupCacheFailureFallsThrough(t *testing.T) {
	repo := &stubRepo{coupon: &domain.Coupon{Code: "OFF", Kind: domain.CouponFixed, Amount: 100, Active: true}}
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")
	svc := New(repo, c, nil)

	got, err := svc.Lookup(context.Background(), "OFF")
	if err != nil || got == nil {
		t.Fatalf("expected store fallback, got %v err=%v", got, err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected store lookup, calls=%d", repo.calls)
	}
}
