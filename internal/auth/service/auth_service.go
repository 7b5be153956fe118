// Package service implements credential verification, token issuance, and
// token revocation on top of the user store, the token codec, and the
// blacklist.
package service

import (
	"context"
	"errors"
	"strings"

	"todo-app/backend/internal/audit"
	"todo-app/backend/internal/auth/blacklist"
	persondomain "todo-app/backend/internal/person/domain"
	"todo-app/backend/internal/security"
	userdomain "todo-app/backend/internal/user/domain"
)

// BearerPrefix is the required Authorization header scheme, including the
// single trailing space. Case-sensitive.
const BearerPrefix = "Bearer "

// Sentinel errors for the auth service; the handler maps them to HTTP status codes.
var (
	// ErrInvalidCredentials covers unknown username, wrong password, and
	// expired account alike, so a caller cannot probe which one it was.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidAuthHeader   = errors.New("invalid authorization header")
	ErrTokenAlreadyRevoked = errors.New("token has already been invalidated")
	ErrInvalidToken        = errors.New("invalid token")
)

// LoginResult holds the issued token plus the profile fields returned to the client.
type LoginResult struct {
	Token    string
	Username string
	Name     string
	Email    string
	Roles    []string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
}

// PersonRepo is the minimal person repository needed by the auth service.
type PersonRepo interface {
	GetByUsername(ctx context.Context, username string) (*persondomain.Person, error)
}

// AuthService implements login and logout.
type AuthService struct {
	userRepo   UserRepo
	personRepo PersonRepo
	hasher     *security.Hasher
	codec      *security.TokenCodec
	revoked    blacklist.Store
	auditLog   audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLog may be nil; then no events are recorded.
func NewAuthService(
	userRepo UserRepo,
	personRepo PersonRepo,
	hasher *security.Hasher,
	codec *security.TokenCodec,
	revoked blacklist.Store,
	auditLog audit.AuditLogger,
) *AuthService {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &AuthService{
		userRepo:   userRepo,
		personRepo: personRepo,
		hasher:     hasher,
		codec:      codec,
		revoked:    revoked,
		auditLog:   auditLog,
	}
}

// Login verifies username/password and issues a token embedding the account's
// roles and its current token version. Unknown username, wrong password, and
// expired account all fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Expired {
		s.auditLog.LogEvent(ctx, "", "login_failure", "auth", username)
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.auditLog.LogEvent(ctx, "", "login_failure", "auth", username)
		return nil, ErrInvalidCredentials
	}

	roles := userdomain.RoleStrings(user.Roles)
	version := s.revoked.VersionOf(ctx, username)
	token, _, err := s.codec.Issue(username, roles, version)
	if err != nil {
		return nil, err
	}

	person, err := s.personRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	result := &LoginResult{
		Token:    token,
		Username: username,
		Roles:    roles,
	}
	if person != nil {
		result.Name = person.Name
		result.Email = person.Email
	}
	s.auditLog.LogEvent(ctx, username, "login_success", "auth", "")
	return result, nil
}

// Logout revokes the token carried by the Authorization header. The header
// must start with the Bearer prefix. An already-expired token can still be
// logged out as long as its signature verifies; revoking it is a harmless
// no-op but must not error.
func (s *AuthService) Logout(ctx context.Context, authHeader string) error {
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return ErrInvalidAuthHeader
	}
	token := strings.TrimSpace(authHeader[len(BearerPrefix):])
	if token == "" {
		return ErrInvalidAuthHeader
	}
	if s.revoked.IsBlacklisted(ctx, token) {
		return ErrTokenAlreadyRevoked
	}
	claims, err := s.codec.ParseAllowExpired(token)
	if err != nil {
		return ErrInvalidToken
	}
	s.revoked.Blacklist(ctx, token, claims.Subject, claims.ExpiresAt.Time)
	s.auditLog.LogEvent(ctx, claims.Subject, "logout", "auth", "")
	return nil
}
