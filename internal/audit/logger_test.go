package audit

import (
	"context"
	"errors"
	"testing"

	"procurehub/internal/audit/domain"
)

type fakeAuditRepo struct {
	entries []*domain.AuditLog
	err     error
}

func (f *fakeAuditRepo) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, a)
	return nil
}

func TestLogEvent(t *testing.T) {
	repo := &fakeAuditRepo{}
	l := NewLogger(repo)

	l.LogEvent(context.Background(), Event{
		OrgID:    "org-1",
		UserID:   "user-1",
		Action:   "member_added",
		Resource: "project",
		IP:       "10.0.0.7",
		Metadata: `{"memberId":"m1"}`,
	})

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ID == "" {
		t.Error("entry ID not set")
	}
	if e.OrgID != "org-1" || e.UserID != "user-1" || e.Action != "member_added" || e.Resource != "project" {
		t.Errorf("entry = %+v", e)
	}
	if e.IP != "10.0.0.7" {
		t.Errorf("ip = %q, want 10.0.0.7", e.IP)
	}
}

func TestLogEvent_Defaults(t *testing.T) {
	repo := &fakeAuditRepo{}
	l := NewLogger(repo)

	l.LogEvent(context.Background(), Event{UserID: "user-1", Action: "invites_reconciled", Resource: "project"})

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	if repo.entries[0].OrgID != SentinelOrgID {
		t.Errorf("org = %q, want %q", repo.entries[0].OrgID, SentinelOrgID)
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want unknown", repo.entries[0].IP)
	}
}

// Repository failures are swallowed; audit is best-effort.
func TestLogEvent_RepoErrorIgnored(t *testing.T) {
	l := NewLogger(&fakeAuditRepo{err: errors.New("db down")})
	l.LogEvent(context.Background(), Event{OrgID: "org-1", UserID: "user-1", Action: "update", Resource: "project"})
}

func TestLogEvent_NilRepo(t *testing.T) {
	l := NewLogger(nil)
	l.LogEvent(context.Background(), Event{OrgID: "org-1", Action: "update", Resource: "project"})
}
