package order

import (
	"context"
	"errors"
	"testing"

	"reshambazaar/internal/domain"
)

type stubRepo struct {
	orders  []domain.Order
	listErr error

	order  *domain.Order
	getErr error

	updateErr   error
	updateCalls int
	lastID      string
	lastFrom    domain.OrderStatus
	lastTo      domain.OrderStatus
}

func (s *stubRepo) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, s.listErr
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.getErr
}

func (s *stubRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) error {
	s.updateCalls++
	s.lastID = id
	s.lastFrom = from
	s.lastTo = to
	return s.updateErr
}

func TestListMine(t *testing.T) {
	repo := &stubRepo{orders: []domain.Order{{ID: "o2"}, {ID: "o1"}}}
	svc := New(repo)
	got, err := svc.ListMine(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "o2" {
		t.Fatalf("unexpected orders %+v", got)
	}
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	svc := New(&stubRepo{})
	err := svc.UpdateStatus(context.Background(), "o1", "refunded")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	svc := New(&stubRepo{getErr: domain.ErrNotFound})
	err := svc.UpdateStatus(context.Background(), "o1", "Shipped")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	repo := &stubRepo{order: &domain.Order{ID: "o1", Status: domain.OrderDelivered}}
	svc := New(repo)
	err := svc.UpdateStatus(context.Background(), "o1", "Cancelled")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("store must not be touched on illegal transition")
	}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	repo := &stubRepo{order: &domain.Order{ID: "o1", Status: domain.OrderPending}}
	svc := New(repo)
	if err := svc.UpdateStatus(context.Background(), "o1", "shipped"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastID != "o1" || repo.lastFrom != domain.OrderPending || repo.lastTo != domain.OrderShipped {
		t.Fatalf("unexpected update args %s %s %s", repo.lastID, repo.lastFrom, repo.lastTo)
	}
}

func TestUpdateStatusConcurrentChange(t *testing.T) {
	repo := &stubRepo{
		order:     &domain.Order{ID: "o1", Status: domain.OrderPending},
		updateErr: domain.ErrConflict,
	}
	svc := New(repo)
	err := svc.UpdateStatus(context.Background(), "o1", "Shipped")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
