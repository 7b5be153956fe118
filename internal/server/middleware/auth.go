package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todo-app/backend/internal/auth/blacklist"
	"todo-app/backend/internal/security"
	userdomain "todo-app/backend/internal/user/domain"
)

// bearerPrefix is the required Authorization scheme: case-sensitive, single
// space. A present header without it means "no credentials supplied", not an
// error.
const bearerPrefix = "Bearer "

// UserLookup resolves the token subject to a credential record.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
}

// Authenticate returns middleware that validates the Bearer token on each
// request and attaches the authenticated principal to the request context.
// Requests without bearer credentials pass through unauthenticated; the
// role guards downstream reject them if the route needs a role. The
// middleware never mutates the blacklist.
func Authenticate(codec *security.TokenCodec, revoked blacklist.Store, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])
		ctx := c.Request.Context()

		if revoked.IsBlacklisted(ctx, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		}

		claims, err := codec.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := users.GetByUsername(ctx, claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if user == nil || user.Username != claims.Subject ||
			claims.TokenVersion != revoked.VersionOf(ctx, claims.Subject) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token version"})
			return
		}

		// Re-entry guard: keep an already-attached principal.
		if _, ok := GetPrincipal(ctx); !ok {
			p := &Principal{
				Username: claims.Subject,
				Roles:    userdomain.RolesFromStrings(claims.Roles),
			}
			c.Request = c.Request.WithContext(WithPrincipal(ctx, p))
		}
		c.Next()
	}
}
