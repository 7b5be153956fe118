package security

import (
	"errors"
	"os"
	"strings"
)

// MinSecretLen is the minimum signing secret size in bytes. HS512 needs a
// secret at least as long as the hash output (64 bytes).
const MinSecretLen = 64

// ErrWeakSecret is returned when the configured signing secret is missing or too short.
var ErrWeakSecret = errors.New("signing secret must be at least 64 bytes")

// LoadSecret resolves the configured JWT secret. s may be the secret value
// itself or a path to a file holding it. The secret must be at least
// MinSecretLen bytes after resolution.
func LoadSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrWeakSecret
	}
	secret := []byte(s)
	if info, err := os.Stat(s); err == nil && !info.IsDir() {
		b, err := os.ReadFile(s)
		if err != nil {
			return nil, err
		}
		secret = []byte(strings.TrimSpace(string(b)))
	}
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	return secret, nil
}
