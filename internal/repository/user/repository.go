package user

import (
	"context"

	"reshambazaar/internal/domain"
)

type CreateUserInput struct {
	Email        string
	PasswordHash string
	Name         string
}

type Repository interface {
	// Create inserts a new user. Returns domain.ErrConflict when the email is
	// already registered.
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
