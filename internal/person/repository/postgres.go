package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-app/backend/internal/person/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a person repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const personColumns = `id, name, email, username, created_at`

// GetByID returns the person for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	return r.getOne(ctx, `SELECT `+personColumns+` FROM persons WHERE id = $1`, id)
}

// GetByUsername returns the person owning the given user account, or nil if not found.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.Person, error) {
	return r.getOne(ctx, `SELECT `+personColumns+` FROM persons WHERE username = $1`, username)
}

// GetByEmail returns the person with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	return r.getOne(ctx, `SELECT `+personColumns+` FROM persons WHERE email = $1`, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*domain.Person, error) {
	p := &domain.Person{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.Name, &p.Email, &p.Username, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

// List returns all persons ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Person, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+personColumns+` FROM persons ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()
	var out []*domain.Person
	for rows.Next() {
		p := &domain.Person{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Username, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return out, nil
}

// Create persists the person. The person must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Person) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO persons (id, name, email, username, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Email, p.Username, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// Update updates the person's name and email.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Person) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE persons SET name = $2, email = $3 WHERE id = $1`,
		p.ID, p.Name, p.Email,
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

// Delete removes the person.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}
