// Package handler exposes person management over HTTP.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	persondomain "todo-app/backend/internal/person/domain"
	"todo-app/backend/internal/person/service"
	"todo-app/backend/internal/platform/rbac"
	userdomain "todo-app/backend/internal/user/domain"
)

// PersonHandler serves /api/person.
type PersonHandler struct {
	svc *service.PersonService
}

// NewPersonHandler returns a PersonHandler backed by svc.
func NewPersonHandler(svc *service.PersonService) *PersonHandler {
	return &PersonHandler{svc: svc}
}

// Register mounts the person routes on r.
func (h *PersonHandler) Register(r gin.IRouter) {
	grp := r.Group("/api/person")
	grp.GET("", h.list)
	grp.GET("/:id", h.get)
	grp.POST("/register", h.register)
	grp.PUT("/:id", h.update)
	grp.PUT("/:id/password", h.changePassword)
	grp.PUT("/:id/expired", h.setExpired)
	grp.DELETE("/:id", h.delete)
}

type personResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPersonResponse(p *persondomain.Person) personResponse {
	return personResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Username:  p.Username,
		CreatedAt: p.CreatedAt,
	}
}

func (h *PersonHandler) list(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleUser, userdomain.RoleAdmin); !ok {
		return
	}
	persons, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list persons"})
		return
	}
	out := make([]personResponse, 0, len(persons))
	for _, p := range persons {
		out = append(out, toPersonResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *PersonHandler) get(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleUser, userdomain.RoleAdmin); !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get person"})
		return
	}
	c.JSON(http.StatusOK, toPersonResponse(p))
}

type registrationRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=100"`
	Email           string `json:"email" binding:"required,email,max=150"`
	Username        string `json:"username" binding:"required,min=4,max=50"`
	Password        string `json:"password" binding:"required,min=8,max=100"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

func (h *PersonHandler) register(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleAdmin, userdomain.RoleModerator); !ok {
		return
	}
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Register(c.Request.Context(), service.Registration{
		Name:            req.Name,
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, toPersonResponse(p))
}

type personUpdateRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email,max=150"`
}

func (h *PersonHandler) update(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleAdmin); !ok {
		return
	}
	var req personUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	Password        string `json:"password" binding:"required,min=8,max=100"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// changePassword lets a user rotate their own password; admins may rotate any.
func (h *PersonHandler) changePassword(c *gin.Context) {
	p, ok := rbac.Guard(c, userdomain.RoleUser, userdomain.RoleAdmin)
	if !ok {
		return
	}
	id := c.Param("id")
	if !p.HasAnyRole(userdomain.RoleAdmin) {
		target, err := h.svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrPersonNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch person"})
			return
		}
		if target.Username != p.Username {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot change another user's password"})
			return
		}
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.Password, req.ConfirmPassword)
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type setExpiredRequest struct {
	Expired *bool `json:"expired" binding:"required"`
}

func (h *PersonHandler) setExpired(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleAdmin); !ok {
		return
	}
	var req setExpiredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.SetExpired(c.Request.Context(), c.Param("id"), *req.Expired)
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update account"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PersonHandler) delete(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleAdmin, userdomain.RoleModerator); !ok {
		return
	}
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete person"})
		return
	}
	c.Status(http.StatusNoContent)
}

