package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"todo-app/backend/internal/auth/blacklist"
	"todo-app/backend/internal/auth/service"
	persondomain "todo-app/backend/internal/person/domain"
	"todo-app/backend/internal/security"
	userdomain "todo-app/backend/internal/user/domain"
)

type stubUserRepo struct {
	m map[string]*userdomain.User
}

func (r *stubUserRepo) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	return r.m[username], nil
}

type stubPersonRepo struct {
	m map[string]*persondomain.Person
}

func (r *stubPersonRepo) GetByUsername(ctx context.Context, username string) (*persondomain.Person, error) {
	return r.m[username], nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := security.NewTestTokenCodec(time.Hour)
	if err != nil {
		t.Fatalf("NewTestTokenCodec: %v", err)
	}
	hasher := security.NewHasher(4)
	hash, err := hasher.Hash([]byte("supersecret"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	users := &stubUserRepo{m: map[string]*userdomain.User{
		"alice": {Username: "alice", PasswordHash: hash, Roles: []userdomain.Role{userdomain.RoleUser}},
	}}
	persons := &stubPersonRepo{m: map[string]*persondomain.Person{
		"alice": {ID: "p1", Name: "Alice A.", Email: "alice@example.com", Username: "alice"},
	}}
	svc := service.NewAuthService(users, persons, hasher, codec, blacklist.NewMemoryStore(), nil)

	r := gin.New()
	NewAuthHandler(svc).Register(r)
	return r
}

func doLogin(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginEndpoint_Success(t *testing.T) {
	r := newTestRouter(t)

	w := doLogin(t, r, `{"username":"alice","password":"supersecret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token    string   `json:"token"`
		Type     string   `json:"type"`
		Username string   `json:"username"`
		Name     string   `json:"name"`
		Email    string   `json:"email"`
		Roles    []string `json:"roles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Token == "" || resp.Type != "Bearer" {
		t.Errorf("token/type = %q/%q", resp.Token, resp.Type)
	}
	if resp.Username != "alice" || resp.Name != "Alice A." || resp.Email != "alice@example.com" {
		t.Errorf("profile = %+v", resp)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != "USER" {
		t.Errorf("roles = %v, want [USER]", resp.Roles)
	}
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	r := newTestRouter(t)

	w := doLogin(t, r, `{"username":"alice","password":"wrongwrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLoginEndpoint_BindingRejectsShortFields(t *testing.T) {
	r := newTestRouter(t)

	for _, body := range []string{
		`{"username":"al","password":"supersecret"}`,
		`{"username":"alice","password":"short"}`,
		`{"password":"supersecret"}`,
		`not json`,
	} {
		w := doLogin(t, r, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestLogoutEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doLogin(t, r, `{"username":"alice","password":"supersecret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d", w.Code)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	logout := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := logout("Bearer " + resp.Token); rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body = %s", rec.Code, rec.Body.String())
	}
	// Second revocation of the same token is a client error.
	if rec := logout("Bearer " + resp.Token); rec.Code != http.StatusBadRequest {
		t.Errorf("double logout status = %d, want 400", rec.Code)
	}
	if rec := logout(""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing header status = %d, want 400", rec.Code)
	}
	if rec := logout("Bearer not.a.jwt"); rec.Code != http.StatusBadRequest {
		t.Errorf("garbage token status = %d, want 400", rec.Code)
	}
}
