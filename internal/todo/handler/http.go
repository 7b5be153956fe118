// Package handler exposes todo management over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-app/backend/internal/platform/rbac"
	tododomain "todo-app/backend/internal/todo/domain"
	"todo-app/backend/internal/todo/service"
	userdomain "todo-app/backend/internal/user/domain"
)

// TodoHandler serves /api/todo.
type TodoHandler struct {
	svc *service.TodoService
}

// NewTodoHandler returns a TodoHandler backed by svc.
func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Register mounts the todo routes on r.
func (h *TodoHandler) Register(r gin.IRouter) {
	grp := r.Group("/api/todo")
	grp.GET("", h.list)
	grp.GET("/:id", h.get)
	grp.GET("/:id/attachment/:attachmentId", h.downloadAttachment)
	grp.GET("/person/:personId", h.listByPerson)
	grp.POST("", h.create)
	grp.PUT("/:id", h.update)
	grp.DELETE("/:id", h.delete)
}

type attachmentResponse struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

type todoResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Completed   bool                 `json:"completed"`
	PersonID    string               `json:"personId"`
	Attachments []attachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   *time.Time           `json:"updatedAt,omitempty"`
	DueDate     *time.Time           `json:"dueDate,omitempty"`
}

func toTodoResponse(t *tododomain.Todo) todoResponse {
	atts := make([]attachmentResponse, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		atts = append(atts, attachmentResponse{
			ID:       a.ID,
			FileName: a.FileName,
			FileType: a.FileType,
		})
	}
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		PersonID:    t.PersonID,
		Attachments: atts,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DueDate:     t.DueDate,
	}
}

func toTodoResponses(todos []*tododomain.Todo) []todoResponse {
	out := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTodoResponse(t))
	}
	return out
}

// todoPayload is the "todo" JSON part of the multipart form.
type todoPayload struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	PersonID    string     `json:"personId"`
}

func (h *TodoHandler) list(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleUser, userdomain.RoleAdmin, userdomain.RoleModerator); !ok {
		return
	}
	todos, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list todos"})
		return
	}
	c.JSON(http.StatusOK, toTodoResponses(todos))
}

func (h *TodoHandler) get(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleUser, userdomain.RoleAdmin, userdomain.RoleModerator); !ok {
		return
	}
	todo, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch todo"})
		return
	}
	c.JSON(http.StatusOK, toTodoResponse(todo))
}

func (h *TodoHandler) downloadAttachment(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleUser, userdomain.RoleAdmin, userdomain.RoleModerator); !ok {
		return
	}
	todo, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch todo"})
		return
	}
	attachmentID := c.Param("attachmentId")
	for _, a := range todo.Attachments {
		if a.ID == attachmentID {
			c.Header("Content-Disposition", `attachment; filename="`+a.FileName+`"`)
			contentType := a.FileType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			c.Data(http.StatusOK, contentType, a.Data)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
}

func (h *TodoHandler) listByPerson(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleUser, userdomain.RoleAdmin, userdomain.RoleModerator); !ok {
		return
	}
	todos, err := h.svc.ListByPerson(c.Request.Context(), c.Param("personId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list todos"})
		return
	}
	c.JSON(http.StatusOK, toTodoResponses(todos))
}

func (h *TodoHandler) create(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleUser, userdomain.RoleAdmin); !ok {
		return
	}
	in, err := parseTodoForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	todo, err := h.svc.Create(c.Request.Context(), *in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toTodoResponse(todo))
}

func (h *TodoHandler) update(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleUser, userdomain.RoleAdmin); !ok {
		return
	}
	in, err := parseTodoForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	todo, err := h.svc.Update(c.Request.Context(), c.Param("id"), *in)
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toTodoResponse(todo))
}

func (h *TodoHandler) delete(c *gin.Context) {
	if _, ok := rbac.Guard(c, userdomain.RoleAdmin, userdomain.RoleModerator); !ok {
		return
	}
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete todo"})
		return
	}
	c.Status(http.StatusNoContent)
}

// parseTodoForm reads a multipart request carrying a "todo" JSON part and
// optional "files" attachment parts. A plain JSON body is accepted when no
// attachments are sent.
func parseTodoForm(c *gin.Context) (*service.Input, error) {
	var payload todoPayload
	var files []*multipart.FileHeader

	if c.ContentType() == "multipart/form-data" {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		raw, err := todoPart(form)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("invalid todo part: %w", err)
		}
		files = form.File["files"]
	} else if err := c.ShouldBindJSON(&payload); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	if len(files) > tododomain.MaxAttachments {
		return nil, fmt.Errorf("at most %d attachments are allowed", tododomain.MaxAttachments)
	}

	in := service.Input{
		Title:       payload.Title,
		Description: payload.Description,
		Completed:   payload.Completed,
		DueDate:     payload.DueDate,
		PersonID:    payload.PersonID,
	}
	for _, fh := range files {
		data, err := readPart(fh, tododomain.MaxAttachmentSize)
		if err != nil {
			return nil, err
		}
		in.Attachments = append(in.Attachments, tododomain.Attachment{
			FileName: fh.Filename,
			FileType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return &in, nil
}

// todoPart extracts the "todo" JSON document, which clients may send either
// as a form value or as an application/json file part.
func todoPart(form *multipart.Form) ([]byte, error) {
	if vals := form.Value["todo"]; len(vals) > 0 {
		return []byte(vals[0]), nil
	}
	if fhs := form.File["todo"]; len(fhs) > 0 {
		return readPart(fhs[0], 1<<20)
	}
	return nil, errors.New("missing todo part")
}

func readPart(fh *multipart.FileHeader, limit int) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open attachment %q: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("read attachment %q: %w", fh.Filename, err)
	}
	if len(data) > limit {
		return nil, fmt.Errorf("attachment %q exceeds the %d byte limit", fh.Filename, limit)
	}
	return data, nil
}
