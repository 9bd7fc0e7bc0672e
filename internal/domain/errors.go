package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart is returned when checkout is attempted with no priced cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidInput indicates a malformed request value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthenticated indicates no resolvable caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrConflict indicates a uniqueness or transactional conflict in the store.
	ErrConflict = errors.New("store conflict")
)
