package repository

import (
	"context"

	"todo-app/backend/internal/person/domain"
)

// Repository defines persistence for persons.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	GetByUsername(ctx context.Context, username string) (*domain.Person, error)
	GetByEmail(ctx context.Context, email string) (*domain.Person, error)
	List(ctx context.Context) ([]*domain.Person, error)
	Create(ctx context.Context, p *domain.Person) error
	Update(ctx context.Context, p *domain.Person) error
	Delete(ctx context.Context, id string) error
}
