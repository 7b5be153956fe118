// seed inserts development sample accounts for local testing.
// Idempotent: skips inserts if the admin account already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"todo-app/backend/internal/config"
	"todo-app/backend/internal/db"
	persondomain "todo-app/backend/internal/person/domain"
	personrepo "todo-app/backend/internal/person/repository"
	"todo-app/backend/internal/security"
	userdomain "todo-app/backend/internal/user/domain"
	userrepo "todo-app/backend/internal/user/repository"
)

const devPassword = "password"

type seedAccount struct {
	username string
	name     string
	email    string
	roles    []userdomain.Role
}

var seedAccounts = []seedAccount{
	{"admin", "Administrator", "admin@example.com", []userdomain.Role{userdomain.RoleAdmin, userdomain.RoleModerator, userdomain.RoleUser}},
	{"user1", "First User", "user1@example.com", []userdomain.Role{userdomain.RoleUser}},
	{"user2", "Second User", "user2@example.com", []userdomain.Role{userdomain.RoleUser}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	persons := personrepo.NewPostgresRepository(conn)

	existing, err := users.GetByUsername(ctx, "admin")
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (admin exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	for _, acc := range seedAccounts {
		if err := users.Create(ctx, &userdomain.User{
			Username:     acc.username,
			PasswordHash: passwordHash,
			Roles:        acc.roles,
		}); err != nil {
			log.Fatalf("create user %s: %v", acc.username, err)
		}
		if err := persons.Create(ctx, &persondomain.Person{
			ID:        uuid.New().String(),
			Name:      acc.name,
			Email:     acc.email,
			Username:  acc.username,
			CreatedAt: now,
		}); err != nil {
			log.Fatalf("create person %s: %v", acc.username, err)
		}
	}

	log.Println("Seed completed successfully.")
	for _, acc := range seedAccounts {
		log.Printf("Login: %s / %s", acc.username, devPassword)
	}
}
