package security

import "time"

// testSecret is a 64-byte HS512 secret for unit tests only. Do not use in production.
const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// NewTestTokenCodec returns a TokenCodec using the embedded test secret and
// the given ttl. For unit tests only. Callers must not use in production.
func NewTestTokenCodec(ttl time.Duration) (*TokenCodec, error) {
	return NewTokenCodec([]byte(testSecret), ttl)
}
