package rbac

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-app/backend/internal/server/middleware"
	"todo-app/backend/internal/user/domain"
)

// Guard enforces the role predicate at a handler's entry point and writes the
// failure response itself: 401 without a principal, 403 without a required
// role. Returns the principal and true when the caller may proceed.
func Guard(c *gin.Context, roles ...domain.Role) (*middleware.Principal, bool) {
	p, err := RequireAnyRole(c.Request.Context(), roles...)
	switch {
	case err == nil:
		return p, true
	case errors.Is(err, ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	}
	return nil, false
}
