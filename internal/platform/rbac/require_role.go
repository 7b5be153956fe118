// Package rbac provides explicit role guards called at each protected
// operation's entry point. Guards fail closed: no principal means
// unauthenticated, a principal without a required role means forbidden.
package rbac

import (
	"context"
	"errors"

	"todo-app/backend/internal/server/middleware"
	"todo-app/backend/internal/user/domain"
)

var (
	// ErrUnauthenticated is returned when no principal is attached to the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the principal lacks every required role.
	ErrForbidden = errors.New("insufficient role")
)

// RequireAnyRole ensures the caller is authenticated and holds at least one
// of the given roles. Returns the principal on success.
func RequireAnyRole(ctx context.Context, roles ...domain.Role) (*middleware.Principal, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok || p == nil || p.Username == "" {
		return nil, ErrUnauthenticated
	}
	if !p.HasAnyRole(roles...) {
		return nil, ErrForbidden
	}
	return p, nil
}
