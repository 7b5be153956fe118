package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-app/backend/internal/audit"
	audithandler "todo-app/backend/internal/audit/handler"
	auditrepo "todo-app/backend/internal/audit/repository"
	"todo-app/backend/internal/auth/blacklist"
	authhandler "todo-app/backend/internal/auth/handler"
	authservice "todo-app/backend/internal/auth/service"
	"todo-app/backend/internal/config"
	"todo-app/backend/internal/db"
	personhandler "todo-app/backend/internal/person/handler"
	personrepo "todo-app/backend/internal/person/repository"
	personservice "todo-app/backend/internal/person/service"
	"todo-app/backend/internal/security"
	"todo-app/backend/internal/server"
	"todo-app/backend/internal/server/middleware"
	todohandler "todo-app/backend/internal/todo/handler"
	todorepo "todo-app/backend/internal/todo/repository"
	todoservice "todo-app/backend/internal/todo/service"
	userrepo "todo-app/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	secret, err := security.LoadSecret(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("jwt secret: %v", err)
	}
	codec, err := security.NewTokenCodec(secret, cfg.TTL())
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}
	hasher := security.NewHasher(cfg.BcryptCost)

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	revoked := blacklist.NewMemoryStore()
	go revoked.Run(ctx, cfg.CleanupInterval())

	users := userrepo.NewPostgresRepository(conn)
	persons := personrepo.NewPostgresRepository(conn)
	todos := todorepo.NewPostgresRepository(conn)
	audits := auditrepo.NewPostgresRepository(conn)
	auditLog := audit.NewLogger(audits, middleware.ClientIPFrom)

	authSvc := authservice.NewAuthService(users, persons, hasher, codec, revoked, auditLog)
	personSvc := personservice.NewPersonService(persons, users, hasher, auditLog)
	todoSvc := todoservice.NewTodoService(todos, persons, auditLog)

	router := server.NewRouter(server.Deps{
		Authenticate: middleware.Authenticate(codec, revoked, users),
		Auth:         authhandler.NewAuthHandler(authSvc),
		Person:       personhandler.NewPersonHandler(personSvc),
		Todo:         todohandler.NewTodoHandler(todoSvc),
		Audit:        audithandler.NewAuditHandler(audits),
		HealthPinger: conn,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
