package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-app/backend/internal/audit"
	persondomain "todo-app/backend/internal/person/domain"
	"todo-app/backend/internal/security"
	userdomain "todo-app/backend/internal/user/domain"
)

// Sentinel errors for the person service; the handler maps them to HTTP status codes.
var (
	ErrPersonNotFound   = errors.New("person not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrUsernameTaken    = errors.New("username already registered")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWrongPassword    = errors.New("current password is incorrect")
)

// Registration is the input for registering a person with their user account.
type Registration struct {
	Name            string
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

// PersonRepo is the person repository needed by the person service.
type PersonRepo interface {
	GetByID(ctx context.Context, id string) (*persondomain.Person, error)
	GetByUsername(ctx context.Context, username string) (*persondomain.Person, error)
	GetByEmail(ctx context.Context, email string) (*persondomain.Person, error)
	List(ctx context.Context) ([]*persondomain.Person, error)
	Create(ctx context.Context, p *persondomain.Person) error
	Update(ctx context.Context, p *persondomain.Person) error
	Delete(ctx context.Context, id string) error
}

// UserRepo is the user repository needed by the person service.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	SetExpired(ctx context.Context, username string, expired bool) error
	Delete(ctx context.Context, username string) error
}

// PersonService implements person listing, registration, update, and deletion.
type PersonService struct {
	personRepo PersonRepo
	userRepo   UserRepo
	hasher     *security.Hasher
	auditLog   audit.AuditLogger
}

// NewPersonService returns a PersonService with the given dependencies.
// auditLog may be nil; then no events are recorded.
func NewPersonService(personRepo PersonRepo, userRepo UserRepo, hasher *security.Hasher, auditLog audit.AuditLogger) *PersonService {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &PersonService{
		personRepo: personRepo,
		userRepo:   userRepo,
		hasher:     hasher,
		auditLog:   auditLog,
	}
}

// List returns all persons.
func (s *PersonService) List(ctx context.Context) ([]*persondomain.Person, error) {
	return s.personRepo.List(ctx)
}

// Get returns the person for id. Fails with ErrPersonNotFound if absent.
func (s *PersonService) Get(ctx context.Context, id string) (*persondomain.Person, error) {
	p, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPersonNotFound
	}
	return p, nil
}

// Register creates a person together with their user account (role USER).
func (s *PersonService) Register(ctx context.Context, reg Registration) (*persondomain.Person, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(strings.ToLower(reg.Email))
	if err := validateUsername(reg.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(reg.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(reg.Password); err != nil {
		return nil, err
	}
	if reg.Password != reg.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if existing, err := s.userRepo.GetByUsername(ctx, reg.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.personRepo.GetByEmail(ctx, reg.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hasher.Hash([]byte(reg.Password))
	if err != nil {
		return nil, err
	}
	user := &userdomain.User{
		Username:     reg.Username,
		PasswordHash: hashed,
		Roles:        []userdomain.Role{userdomain.RoleUser},
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	person := &persondomain.Person{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(reg.Name),
		Email:     reg.Email,
		Username:  reg.Username,
		CreatedAt: time.Now().UTC(),
	}
	if err := person.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, err
	}
	s.auditLog.LogEvent(ctx, reg.Username, "register", "person", person.ID)
	return person, nil
}

// Update changes the person's name and email. Fails with ErrPersonNotFound if absent.
func (s *PersonService) Update(ctx context.Context, id, name, email string) error {
	p, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPersonNotFound
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	if other, err := s.personRepo.GetByEmail(ctx, email); err != nil {
		return err
	} else if other != nil && other.ID != id {
		return ErrEmailTaken
	}
	p.Name = strings.TrimSpace(name)
	p.Email = email
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.personRepo.Update(ctx, p); err != nil {
		return err
	}
	s.auditLog.LogEvent(ctx, p.Username, "update", "person", id)
	return nil
}

// ChangePassword replaces the account's password after verifying the current
// one. Fails with ErrPersonNotFound if absent, ErrWrongPassword on a bad
// current password, ErrPasswordMismatch when the confirmation differs.
func (s *PersonService) ChangePassword(ctx context.Context, id, current, password, confirm string) error {
	p, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPersonNotFound
	}
	u, err := s.userRepo.GetByUsername(ctx, p.Username)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrPersonNotFound
	}
	if err := s.hasher.Compare(u.PasswordHash, []byte(current)); err != nil {
		return ErrWrongPassword
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, p.Username, hashed); err != nil {
		return err
	}
	s.auditLog.LogEvent(ctx, p.Username, "change_password", "person", id)
	return nil
}

// SetExpired flips the account's expired flag. An expired account cannot log
// in; outstanding tokens still pass request authentication until they expire
// or are revoked. Fails with ErrPersonNotFound if absent.
func (s *PersonService) SetExpired(ctx context.Context, id string, expired bool) error {
	p, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPersonNotFound
	}
	if err := s.userRepo.SetExpired(ctx, p.Username, expired); err != nil {
		return err
	}
	action := "expire_account"
	if !expired {
		action = "restore_account"
	}
	s.auditLog.LogEvent(ctx, p.Username, action, "person", id)
	return nil
}

// Delete removes the person and their user account. Fails with ErrPersonNotFound if absent.
func (s *PersonService) Delete(ctx context.Context, id string) error {
	p, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPersonNotFound
	}
	if err := s.personRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, p.Username); err != nil {
		return err
	}
	s.auditLog.LogEvent(ctx, p.Username, "delete", "person", id)
	return nil
}

func validateUsername(username string) error {
	const pattern = `^[a-zA-Z0-9._-]{4,50}$`
	ok, _ := regexp.MatchString(pattern, username)
	if !ok {
		return errors.New("username must be 4-50 characters of letters, numbers, dots, underscores, and hyphens")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 100 {
		return errors.New("password must be between 8 and 100 characters")
	}
	return nil
}
