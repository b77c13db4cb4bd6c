package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"procurehub/internal/audit/domain"
	auditrepo "procurehub/internal/audit/repository"
)

// SentinelOrgID is the org_id used for audit events that have no org context.
const SentinelOrgID = "_system"

// Event is one auditable action. IP and Metadata may be empty.
type Event struct {
	OrgID    string
	UserID   string
	Action   string
	Resource string
	IP       string
	Metadata string
}

// Logger persists audit events. LogEvent is best-effort: failures are logged
// and do not affect the caller.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns a Logger that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, ev Event) {
	if l == nil || l.repo == nil {
		return
	}
	if ev.OrgID == "" {
		ev.OrgID = SentinelOrgID
	}
	if ev.IP == "" {
		ev.IP = "unknown"
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		OrgID:     ev.OrgID,
		UserID:    ev.UserID,
		Action:    ev.Action,
		Resource:  ev.Resource,
		IP:        ev.IP,
		Metadata:  ev.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", ev.Action, ev.Resource, err)
	}
}
