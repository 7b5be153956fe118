package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"todo-app/backend/internal/auth/blacklist"
	"todo-app/backend/internal/security"
	userdomain "todo-app/backend/internal/user/domain"
)

type fakeUserLookup struct {
	m map[string]*userdomain.User
}

func (f *fakeUserLookup) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	return f.m[username], nil
}

type authFixture struct {
	codec   *security.TokenCodec
	revoked *blacklist.MemoryStore
	router  *gin.Engine
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := security.NewTestTokenCodec(time.Hour)
	if err != nil {
		t.Fatalf("NewTestTokenCodec: %v", err)
	}
	revoked := blacklist.NewMemoryStore()
	users := &fakeUserLookup{m: map[string]*userdomain.User{
		"alice": {Username: "alice", Roles: []userdomain.Role{userdomain.RoleUser}},
	}}

	r := gin.New()
	r.Use(Authenticate(codec, revoked, users))
	r.GET("/whoami", func(c *gin.Context) {
		p, ok := GetPrincipal(c.Request.Context())
		if !ok {
			c.JSON(http.StatusOK, gin.H{"username": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": p.Username})
	})

	return &authFixture{codec: codec, revoked: revoked, router: r}
}

func (f *authFixture) get(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_NoHeaderPassesThrough(t *testing.T) {
	f := newAuthFixture(t)

	w := f.get(t, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"username":""`) {
		t.Errorf("body = %s, want empty principal", w.Body.String())
	}
}

func TestAuthenticate_NonBearerSchemePassesThrough(t *testing.T) {
	f := newAuthFixture(t)

	for _, header := range []string{"Basic dXNlcjpwYXNz", "bearer abc", "Token abc"} {
		w := f.get(t, header)
		if w.Code != http.StatusOK {
			t.Errorf("header %q: status = %d, want 200 passthrough", header, w.Code)
		}
	}
}

func TestAuthenticate_ValidTokenAttachesPrincipal(t *testing.T) {
	f := newAuthFixture(t)

	token, _, err := f.codec.Issue("alice", []string{"USER"}, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	w := f.get(t, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"username":"alice"`) {
		t.Errorf("body = %s, want alice principal", w.Body.String())
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	f := newAuthFixture(t)

	token, expiresAt, err := f.codec.Issue("alice", []string{"USER"}, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	f.revoked.Blacklist(context.Background(), token, "alice", expiresAt)

	w := f.get(t, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Token has been revoked") {
		t.Errorf("body = %s, want revoked message", w.Body.String())
	}
}

func TestAuthenticate_MalformedToken(t *testing.T) {
	f := newAuthFixture(t)

	w := f.get(t, "Bearer not.a.jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid token") {
		t.Errorf("body = %s, want invalid token message", w.Body.String())
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)

	expiredCodec, err := security.NewTestTokenCodec(-time.Minute)
	if err != nil {
		t.Fatalf("NewTestTokenCodec: %v", err)
	}
	token, _, err := expiredCodec.Issue("alice", []string{"USER"}, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := f.get(t, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid token") {
		t.Errorf("body = %s, want invalid token message", w.Body.String())
	}
}

func TestAuthenticate_UnknownSubject(t *testing.T) {
	f := newAuthFixture(t)

	token, _, err := f.codec.Issue("mallory", []string{"USER"}, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := f.get(t, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid token version") {
		t.Errorf("body = %s, want version message", w.Body.String())
	}
}

func TestAuthenticate_StaleVersionAfterLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	// Two sessions for the same account; revoking one bumps the version
	// and invalidates the other.
	first, expiresAt, err := f.codec.Issue("alice", []string{"USER"}, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, _, err := f.codec.Issue("alice", []string{"ADMIN"}, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	f.revoked.Blacklist(ctx, first, "alice", expiresAt)

	w := f.get(t, "Bearer "+second)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid token version") {
		t.Errorf("body = %s, want version message", w.Body.String())
	}
}

func TestAuthenticate_FreshTokenAfterLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	old, expiresAt, err := f.codec.Issue("alice", []string{"USER"}, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	f.revoked.Blacklist(ctx, old, "alice", expiresAt)

	fresh, _, err := f.codec.Issue("alice", []string{"USER"}, f.revoked.VersionOf(ctx, "alice"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	w := f.get(t, "Bearer "+fresh)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body = %s", w.Code, w.Body.String())
	}
}
