package domain

import "time"

// AuditLog records one privileged action against an org-scoped resource
// (project renamed, member invited, round closed, and so on).
type AuditLog struct {
	ID        string
	OrgID     string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
