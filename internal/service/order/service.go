package order

import (
	"context"
	"fmt"

	"reshambazaar/internal/domain"
)

type orderRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
}

// Service reads orders and administers status transitions. Order creation
// lives in the checkout service.
type Service struct {
	repo orderRepo
}

func New(repo orderRepo) *Service {
	return &Service{repo: repo}
}

// ListMine returns the user's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus moves an order to the named status, enforcing the
// Pending -> Shipped -> Delivered machine with cancellation from any
// non-terminal state. The expected-current-status check in the store turns a
// concurrent transition into domain.ErrConflict.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) error {
	next, ok := domain.ParseOrderStatus(status)
	if !ok {
		return fmt.Errorf("%w: unknown status %q, allowed: Pending, Shipped, Delivered, Cancelled",
			domain.ErrInvalidInput, status)
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransition(next) {
		return fmt.Errorf("%w: cannot transition order from %s to %s",
			domain.ErrInvalidInput, order.Status, next)
	}
	return s.repo.UpdateStatus(ctx, orderID, order.Status, next)
}
