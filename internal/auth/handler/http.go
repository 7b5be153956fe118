// Package handler exposes login and logout over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-app/backend/internal/auth/service"
)

// AuthHandler serves /api/auth.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler returns an AuthHandler backed by svc.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register mounts the auth routes on r.
func (h *AuthHandler) Register(r gin.IRouter) {
	grp := r.Group("/api/auth")
	grp.POST("/login", h.login)
	grp.POST("/logout", h.logout)
}

type loginRequest struct {
	Username string `json:"username" binding:"required,min=4,max=50"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type loginResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		Token:    result.Token,
		Type:     "Bearer",
		Username: result.Username,
		Name:     result.Name,
		Email:    result.Email,
		Roles:    result.Roles,
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	err := h.svc.Logout(c.Request.Context(), c.GetHeader("Authorization"))
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, service.ErrInvalidAuthHeader),
		errors.Is(err, service.ErrTokenAlreadyRevoked),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
	}
}
