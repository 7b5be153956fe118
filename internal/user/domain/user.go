package domain

import (
	"errors"
)

// Role is an account role tag. The set is closed; any external prefix
// convention (e.g. "ROLE_") belongs to the boundary layer, not here.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// ParseRole maps s to a known Role. Returns false for anything outside the set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleModerator:
		return Role(s), true
	}
	return "", false
}

// RoleStrings converts roles to their string tags, preserving order.
func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// RolesFromStrings converts string tags back to roles, dropping unknown tags.
func RolesFromStrings(tags []string) []Role {
	out := make([]Role, 0, len(tags))
	for _, t := range tags {
		if r, ok := ParseRole(t); ok {
			out = append(out, r)
		}
	}
	return out
}

// User is the credential record: login name, password digest, role tags, and
// the expired flag that disables the account.
type User struct {
	Username     string
	PasswordHash string
	Roles        []Role
	Expired      bool
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if len(u.Roles) == 0 {
		u.Roles = []Role{RoleUser}
	}
	for _, r := range u.Roles {
		if _, ok := ParseRole(string(r)); !ok {
			return errors.New("unknown role: " + string(r))
		}
	}
	return nil
}
