package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, has a bad
	// signature, or (for Parse) has expired.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims holds the JWT claims carried by an issued token: subject is the
// username, Roles the account's role tags, and TokenVersion the per-user
// revocation counter at issue time.
type Claims struct {
	jwt.RegisteredClaims
	Roles        []string `json:"roles"`
	TokenVersion int      `json:"tokenVersion"`
}

// TokenCodec issues and validates JWT tokens signed with HS512 over a shared secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec returns a TokenCodec that signs with the given shared secret.
// The secret must be at least MinSecretLen bytes; ttl is the lifetime of
// issued tokens.
func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	return &TokenCodec{secret: secret, ttl: ttl}, nil
}

// Issue signs a token for username embedding roles and the current token
// version. Returns the token string and its expiration time.
func (c *TokenCodec) Issue(username string, roles []string, version int) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(c.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Roles:        roles,
		TokenVersion: version,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	token, err = t.SignedString(c.secret)
	return token, expiresAt, err
}

// Parse verifies the token's signature and structure and rejects expired
// tokens. Returns the claims or ErrInvalidToken.
func (c *TokenCodec) Parse(tokenString string) (*Claims, error) {
	return c.parse(tokenString, false)
}

// ParseAllowExpired verifies the token's signature and structure but accepts
// an expired token. Used on logout, where claims of an already-expired token
// are still needed to register it in the blacklist.
func (c *TokenCodec) ParseAllowExpired(tokenString string) (*Claims, error) {
	return c.parse(tokenString, true)
}

func (c *TokenCodec) parse(tokenString string, allowExpired bool) (*Claims, error) {
	var opts []jwt.ParserOption
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsExpired reports whether the token's embedded expiry has passed. The
// signature must still verify; an unparseable token is an error.
func (c *TokenCodec) IsExpired(tokenString string) (bool, error) {
	claims, err := c.ParseAllowExpired(tokenString)
	if err != nil {
		return false, err
	}
	return !claims.ExpiresAt.After(time.Now().UTC()), nil
}
