package repository

import (
	"context"

	"todo-app/backend/internal/todo/domain"
)

// Repository defines persistence for todos and their attachments.
type Repository interface {
	// GetByID returns the todo with its attachments, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Todo, error)
	// List returns all todos. Attachment data is not loaded; each todo's
	// Attachments carry metadata only.
	List(ctx context.Context) ([]*domain.Todo, error)
	// ListByPerson returns the todos owned by the given person.
	ListByPerson(ctx context.Context, personID string) ([]*domain.Todo, error)
	// Create persists the todo together with its attachments.
	Create(ctx context.Context, t *domain.Todo) error
	// Update rewrites the todo's fields and replaces its attachments when the
	// todo carries any.
	Update(ctx context.Context, t *domain.Todo) error
	Delete(ctx context.Context, id string) error
}
