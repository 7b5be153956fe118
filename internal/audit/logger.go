// Package audit records security-relevant events (logins, logouts, data
// mutations) best-effort: failures are logged, never surfaced to the caller.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"todo-app/backend/internal/audit/domain"
	auditrepo "todo-app/backend/internal/audit/repository"
)

// SentinelUsername is recorded for events with no resolved account
// (e.g. login_failure for an unknown username).
const SentinelUsername = "_anonymous"

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, username, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, username, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	ip := ""
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	if ip == "" {
		ip = "unknown"
	}
	if username == "" {
		username = SentinelUsername
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		Username:  username,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to write %s/%s event: %v", action, resource, err)
	}
}

// Nop is an AuditLogger that discards events. Useful in tests and when no
// database is configured.
type Nop struct{}

func (Nop) LogEvent(ctx context.Context, username, action, resource, metadata string) {}
