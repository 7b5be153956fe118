package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-app/backend/internal/todo/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a todo repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const todoColumns = `id, title, description, completed, created_at, updated_at, due_date, person_id`

// GetByID returns the todo with its attachments, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	t := &domain.Todo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt, &t.DueDate, &t.PersonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, todo_id, file_name, file_type, data FROM attachments WHERE todo_id = $1 ORDER BY file_name`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get attachments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.TodoID, &a.FileName, &a.FileType, &a.Data); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		t.Attachments = append(t.Attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get attachments: %w", err)
	}
	return t, nil
}

// List returns all todos with attachment metadata (no file data).
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Todo, error) {
	return r.list(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC`)
}

// ListByPerson returns the todos owned by the given person.
func (r *PostgresRepository) ListByPerson(ctx context.Context, personID string) ([]*domain.Todo, error) {
	return r.list(ctx, `SELECT `+todoColumns+` FROM todos WHERE person_id = $1 ORDER BY created_at DESC`, personID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()
	var out []*domain.Todo
	for rows.Next() {
		t := &domain.Todo{}
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt, &t.DueDate, &t.PersonID); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	// Attachment metadata in one pass; file bytes stay in the DB until a
	// single todo is fetched.
	metaRows, err := r.db.QueryContext(ctx,
		`SELECT id, todo_id, file_name, file_type FROM attachments ORDER BY file_name`)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer metaRows.Close()
	byTodo := make(map[string][]domain.Attachment)
	for metaRows.Next() {
		var a domain.Attachment
		if err := metaRows.Scan(&a.ID, &a.TodoID, &a.FileName, &a.FileType); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		byTodo[a.TodoID] = append(byTodo[a.TodoID], a)
	}
	if err := metaRows.Err(); err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	for _, t := range out {
		t.Attachments = byTodo[t.ID]
	}
	return out, nil
}

// Create persists the todo together with its attachments in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Todo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO todos (`+todoColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt, t.DueDate, t.PersonID,
	); err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	if err := insertAttachments(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the todo's fields; when the todo carries attachments they
// replace the stored set.
func (r *PostgresRepository) Update(ctx context.Context, t *domain.Todo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = $2, description = $3, completed = $4, updated_at = $5, due_date = $6 WHERE id = $1`,
		t.ID, t.Title, t.Description, t.Completed, t.UpdatedAt, t.DueDate,
	); err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if len(t.Attachments) > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attachments WHERE todo_id = $1`, t.ID); err != nil {
			return fmt.Errorf("delete attachments: %w", err)
		}
		if err := insertAttachments(ctx, tx, t); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes the todo; attachments cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func insertAttachments(ctx context.Context, tx *sql.Tx, t *domain.Todo) error {
	for _, a := range t.Attachments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO attachments (id, todo_id, file_name, file_type, data) VALUES ($1, $2, $3, $4, $5)`,
			a.ID, t.ID, a.FileName, a.FileType, a.Data,
		); err != nil {
			return fmt.Errorf("insert attachment: %w", err)
		}
	}
	return nil
}
