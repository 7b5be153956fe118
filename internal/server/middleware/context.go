package middleware

import (
	"context"

	userdomain "todo-app/backend/internal/user/domain"
)

// Principal is the authenticated identity attached to a request after the
// bearer token has been validated.
type Principal struct {
	Username string
	Roles    []userdomain.Role
}

// HasAnyRole reports whether the principal carries at least one of the given roles.
func (p *Principal) HasAnyRole(roles ...userdomain.Role) bool {
	for _, want := range roles {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type contextKey struct{ name string }

var principalKey = contextKey{"principal"}

// WithPrincipal returns a context carrying the authenticated principal.
// Handlers and guards read it via GetPrincipal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal returns the principal from context and true if set; otherwise nil, false.
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

var clientIPKey = contextKey{"clientIP"}

// WithClientIP returns a context carrying the client IP for audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFrom returns the client IP stored in the context, or "" if unset.
func ClientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}
