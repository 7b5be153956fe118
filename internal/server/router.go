// Package server assembles the HTTP router from the feature handlers.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	audithandler "todo-app/backend/internal/audit/handler"
	authhandler "todo-app/backend/internal/auth/handler"
	personhandler "todo-app/backend/internal/person/handler"
	"todo-app/backend/internal/server/middleware"
	todohandler "todo-app/backend/internal/todo/handler"
)

// Pinger reports backend liveness, typically *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds the handlers and middleware the router mounts.
type Deps struct {
	// Authenticate validates bearer tokens on every request. Required.
	Authenticate gin.HandlerFunc
	// Auth serves login and logout. Required.
	Auth *authhandler.AuthHandler
	// Person serves person management. If nil, the routes are not mounted.
	Person *personhandler.PersonHandler
	// Todo serves todo management. If nil, the routes are not mounted.
	Todo *todohandler.TodoHandler
	// Audit serves the admin audit trail. If nil, the routes are not mounted.
	Audit *audithandler.AuditHandler
	// HealthPinger is checked on /healthz, e.g. *sql.DB. If nil, the DB ping is skipped.
	HealthPinger Pinger
}

// NewRouter builds the gin engine with all routes mounted.
//
// Route → handler mapping:
//   - /api/auth/*   → internal/auth/handler
//   - /api/person/* → internal/person/handler
//   - /api/todo/*   → internal/todo/handler
//   - /api/audit/*  → internal/audit/handler
//   - /healthz      → inline readiness probe
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.ClientIP())
	r.Use(deps.Authenticate)

	deps.Auth.Register(r)
	if deps.Person != nil {
		deps.Person.Register(r)
	}
	if deps.Todo != nil {
		deps.Todo.Register(r)
	}
	if deps.Audit != nil {
		deps.Audit.Register(r)
	}

	r.GET("/healthz", func(c *gin.Context) {
		if deps.HealthPinger != nil {
			if err := deps.HealthPinger.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
