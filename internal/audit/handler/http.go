// Package handler exposes the audit trail to administrators over HTTP.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todo-app/backend/internal/audit/domain"
	auditrepo "todo-app/backend/internal/audit/repository"
	"todo-app/backend/internal/platform/rbac"
	userdomain "todo-app/backend/internal/user/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// AuditHandler serves /api/audit.
type AuditHandler struct {
	repo auditrepo.Repository
}

func NewAuditHandler(repo auditrepo.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// Register mounts the audit routes on r.
func (h *AuditHandler) Register(r gin.IRouter) {
	r.GET("/api/audit/entry/:id", h.get)
	r.GET("/api/audit/:username", h.listByUsername)
}

type auditLogResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *AuditHandler) get(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleAdmin); !ok {
		return
	}
	entry, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch audit log"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit log not found"})
		return
	}
	c.JSON(http.StatusOK, toAuditResponse(entry))
}

func (h *AuditHandler) listByUsername(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleAdmin); !ok {
		return
	}
	limit := queryInt(c, "limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	logs, err := h.repo.ListByUsername(c.Request.Context(), c.Param("username"), int32(limit), int32(offset))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit logs"})
		return
	}
	out := make([]auditLogResponse, 0, len(logs))
	for _, a := range logs {
		out = append(out, toAuditResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func toAuditResponse(a *domain.AuditLog) auditLogResponse {
	return auditLogResponse{
		ID:        a.ID,
		Username:  a.Username,
		Action:    a.Action,
		Resource:  a.Resource,
		IP:        a.IP,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
