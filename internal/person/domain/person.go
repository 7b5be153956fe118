package domain

import (
	"errors"
	"time"
)

// Person is the profile attached to a user account.
type Person struct {
	ID        string
	Name      string
	Email     string
	Username  string
	CreatedAt time.Time
}

// Validate validates the person for persistence. Returns an error describing the first validation failure.
func (p *Person) Validate() error {
	if len(p.Name) < 2 || len(p.Name) > 100 {
		return errors.New("name must be between 2 and 100 characters")
	}
	if p.Email == "" || len(p.Email) > 150 {
		return errors.New("email is required and must be less than 150 characters")
	}
	if p.Username == "" {
		return errors.New("username is required")
	}
	return nil
}
