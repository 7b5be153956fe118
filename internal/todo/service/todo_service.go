package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"todo-app/backend/internal/audit"
	persondomain "todo-app/backend/internal/person/domain"
	tododomain "todo-app/backend/internal/todo/domain"
)

// Sentinel errors for the todo service; the handler maps them to HTTP status codes.
var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrOwnerNotFound = errors.New("owner not found")
)

// Input is the mutable part of a todo supplied by the client. Attachments
// replace the stored set when non-empty on update.
type Input struct {
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	PersonID    string
	Attachments []tododomain.Attachment
}

// TodoRepo is the todo repository needed by the todo service.
type TodoRepo interface {
	GetByID(ctx context.Context, id string) (*tododomain.Todo, error)
	List(ctx context.Context) ([]*tododomain.Todo, error)
	ListByPerson(ctx context.Context, personID string) ([]*tododomain.Todo, error)
	Create(ctx context.Context, t *tododomain.Todo) error
	Update(ctx context.Context, t *tododomain.Todo) error
	Delete(ctx context.Context, id string) error
}

// PersonRepo is the person repository needed by the todo service.
type PersonRepo interface {
	GetByID(ctx context.Context, id string) (*persondomain.Person, error)
}

// TodoService implements todo listing, creation, update, and deletion.
type TodoService struct {
	todoRepo   TodoRepo
	personRepo PersonRepo
	auditLog   audit.AuditLogger
}

// NewTodoService returns a TodoService with the given dependencies.
// auditLog may be nil; then no events are recorded.
func NewTodoService(todoRepo TodoRepo, personRepo PersonRepo, auditLog audit.AuditLogger) *TodoService {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &TodoService{todoRepo: todoRepo, personRepo: personRepo, auditLog: auditLog}
}

// List returns all todos with attachment metadata.
func (s *TodoService) List(ctx context.Context) ([]*tododomain.Todo, error) {
	return s.todoRepo.List(ctx)
}

// ListByPerson returns the todos owned by the given person.
func (s *TodoService) ListByPerson(ctx context.Context, personID string) ([]*tododomain.Todo, error) {
	return s.todoRepo.ListByPerson(ctx, personID)
}

// Get returns the todo with attachments. Fails with ErrTodoNotFound if absent.
func (s *TodoService) Get(ctx context.Context, id string) (*tododomain.Todo, error) {
	t, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTodoNotFound
	}
	return t, nil
}

// Create persists a new todo for the given owner.
func (s *TodoService) Create(ctx context.Context, in Input) (*tododomain.Todo, error) {
	owner, err := s.personRepo.GetByID(ctx, in.PersonID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}
	t := &tododomain.Todo{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		CreatedAt:   time.Now().UTC(),
		DueDate:     in.DueDate,
		PersonID:    in.PersonID,
		Attachments: withAttachmentIDs(in.Attachments),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.todoRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.auditLog.LogEvent(ctx, owner.Username, "create", "todo", t.ID)
	return t, nil
}

// Update rewrites the todo's fields; non-empty attachments replace the stored
// set. Fails with ErrTodoNotFound if absent.
func (s *TodoService) Update(ctx context.Context, id string, in Input) (*tododomain.Todo, error) {
	t, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTodoNotFound
	}
	now := time.Now().UTC()
	t.Title = in.Title
	t.Description = in.Description
	t.Completed = in.Completed
	t.DueDate = in.DueDate
	t.UpdatedAt = &now
	if len(in.Attachments) > 0 {
		t.Attachments = withAttachmentIDs(in.Attachments)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.todoRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.auditLog.LogEvent(ctx, "", "update", "todo", t.ID)
	return t, nil
}

// Delete removes the todo and its attachments. Fails with ErrTodoNotFound if absent.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	t, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTodoNotFound
	}
	if err := s.todoRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditLog.LogEvent(ctx, "", "delete", "todo", id)
	return nil
}

func withAttachmentIDs(attachments []tododomain.Attachment) []tododomain.Attachment {
	out := make([]tododomain.Attachment, len(attachments))
	for i, a := range attachments {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		out[i] = a
	}
	return out
}
