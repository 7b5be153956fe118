package rbac

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"todo-app/backend/internal/server/middleware"
	"todo-app/backend/internal/user/domain"
)

func ctxWith(p *middleware.Principal) context.Context {
	return middleware.WithPrincipal(context.Background(), p)
}

func TestRequireAnyRole_NoPrincipal(t *testing.T) {
	_, err := RequireAnyRole(context.Background(), domain.RoleUser)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestRequireAnyRole_EmptyUsername(t *testing.T) {
	ctx := ctxWith(&middleware.Principal{Roles: []domain.Role{domain.RoleUser}})
	_, err := RequireAnyRole(ctx, domain.RoleUser)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestRequireAnyRole_MissingRole(t *testing.T) {
	ctx := ctxWith(&middleware.Principal{Username: "alice", Roles: []domain.Role{domain.RoleUser}})
	_, err := RequireAnyRole(ctx, domain.RoleAdmin)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestRequireAnyRole_AnyOfSeveral(t *testing.T) {
	ctx := ctxWith(&middleware.Principal{Username: "alice", Roles: []domain.Role{domain.RoleModerator}})
	p, err := RequireAnyRole(ctx, domain.RoleAdmin, domain.RoleModerator)
	if err != nil {
		t.Fatalf("RequireAnyRole: %v", err)
	}
	if p.Username != "alice" {
		t.Errorf("principal = %q, want alice", p.Username)
	}
}

func TestGuard_WritesStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		principal  *middleware.Principal
		wantStatus int
	}{
		{"unauthenticated", nil, http.StatusUnauthorized},
		{"forbidden", &middleware.Principal{Username: "bob", Roles: []domain.Role{domain.RoleUser}}, http.StatusForbidden},
		{"allowed", &middleware.Principal{Username: "bob", Roles: []domain.Role{domain.RoleAdmin}}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				if tc.principal != nil {
					c.Request = c.Request.WithContext(ctxWith(tc.principal))
				}
				if _, ok := Guard(c, domain.RoleAdmin); !ok {
					return
				}
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}
