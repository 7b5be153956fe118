package domain

import (
	"errors"
	"time"
)

// Attachment is a file stored with a todo. Data holds the raw content.
type Attachment struct {
	ID       string
	TodoID   string
	FileName string
	FileType string
	Data     []byte
}

// Todo is a todo item owned by a person.
type Todo struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DueDate     *time.Time
	PersonID    string
	Attachments []Attachment
}

// MaxAttachments and MaxAttachmentSize bound what a single todo may carry.
const (
	MaxAttachments    = 5
	MaxAttachmentSize = 2 << 20 // 2 MiB per file
)

// Validate validates the todo for persistence. Returns an error describing the first validation failure.
func (t *Todo) Validate() error {
	if len(t.Title) < 2 || len(t.Title) > 100 {
		return errors.New("title must be between 2 and 100 characters")
	}
	if len(t.Description) > 500 {
		return errors.New("description must be less than 500 characters")
	}
	if t.PersonID == "" {
		return errors.New("person id is required")
	}
	if len(t.Attachments) > MaxAttachments {
		return errors.New("at most 5 attachments allowed")
	}
	for _, a := range t.Attachments {
		if len(a.Data) == 0 {
			return errors.New("empty attachment not allowed: " + a.FileName)
		}
		if len(a.Data) > MaxAttachmentSize {
			return errors.New("attachment exceeds 2MB limit: " + a.FileName)
		}
	}
	return nil
}
