package repository

import (
	"context"

	"todo-app/backend/internal/user/domain"
)

// Repository defines persistence for credential records.
type Repository interface {
	// GetByUsername returns the user for username, or nil if not found.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// UpdatePassword replaces the stored password digest.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	// SetExpired toggles the account's expired flag.
	SetExpired(ctx context.Context, username string, expired bool) error
	Delete(ctx context.Context, username string) error
}
