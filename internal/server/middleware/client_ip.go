package middleware

import "github.com/gin-gonic/gin"

// ClientIP records the resolved client IP on the request context so the
// audit logger can attribute events without depending on gin.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithClientIP(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
