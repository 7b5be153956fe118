package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-app/backend/internal/user/domain"
)

// PostgresRepository persists users and their role tags in the users and
// user_roles tables.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUsername returns the user for username, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, expired FROM users WHERE username = $1`,
		username,
	).Scan(&u.Username, &u.PasswordHash, &u.Expired)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE username = $1 ORDER BY role`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("get user roles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		if role, ok := domain.ParseRole(tag); ok {
			u.Roles = append(u.Roles, role)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get user roles: %w", err)
	}
	return u, nil
}

// Create persists the user and their roles in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, expired) VALUES ($1, $2, $3)`,
		u.Username, u.PasswordHash, u.Expired,
	); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	for _, role := range u.Roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (username, role) VALUES ($1, $2)`,
			u.Username, string(role),
		); err != nil {
			return fmt.Errorf("insert role: %w", err)
		}
	}
	return tx.Commit()
}

// UpdatePassword replaces the stored password digest.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE username = $1`,
		username, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetExpired toggles the account's expired flag.
func (r *PostgresRepository) SetExpired(ctx context.Context, username string, expired bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET expired = $2 WHERE username = $1`,
		username, expired,
	)
	if err != nil {
		return fmt.Errorf("set expired: %w", err)
	}
	return nil
}

// Delete removes the user; role rows cascade.
func (r *PostgresRepository) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
