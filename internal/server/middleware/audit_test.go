package middleware

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"procurehub/internal/audit/domain"
)

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	err     error
}

func (f *fakeAuditRepo) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) logged() []*domain.AuditLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries
}

func newAuditTestApp(repo *fakeAuditRepo, skipRoutes map[string]bool, identity bool) *fiber.App {
	app := fiber.New()
	if identity {
		app.Use(func(c *fiber.Ctx) error {
			c.SetUserContext(WithIdentity(c.UserContext(), "user-1", "org-1", "dana@example.com", "sess-1"))
			return c.Next()
		})
	}
	app.Use(Audit(repo, skipRoutes))
	app.Get("/v1/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/v1/projects", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	return app
}

func TestAudit_RecordsAuthenticatedRequest(t *testing.T) {
	repo := &fakeAuditRepo{}
	app := newAuditTestApp(repo, nil, true)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/projects", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	entries := repo.logged()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.OrgID != "org-1" || e.UserID != "user-1" {
		t.Errorf("entry identity = %q/%q", e.OrgID, e.UserID)
	}
	if e.Action != "create" || e.Resource != "project" {
		t.Errorf("entry = %s/%s, want create/project", e.Action, e.Resource)
	}
}

func TestAudit_SkipsUnauthenticated(t *testing.T) {
	repo := &fakeAuditRepo{}
	app := newAuditTestApp(repo, nil, false)

	if _, err := app.Test(httptest.NewRequest("POST", "/v1/projects", nil)); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if len(repo.logged()) != 0 {
		t.Errorf("entries = %d, want 0", len(repo.logged()))
	}
}

func TestAudit_SkipRoutes(t *testing.T) {
	repo := &fakeAuditRepo{}
	app := newAuditTestApp(repo, map[string]bool{"GET /v1/health": true}, true)

	if _, err := app.Test(httptest.NewRequest("GET", "/v1/health", nil)); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if len(repo.logged()) != 0 {
		t.Errorf("entries = %d, want 0", len(repo.logged()))
	}
}

func TestAudit_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &fakeAuditRepo{err: context.DeadlineExceeded}
	app := newAuditTestApp(repo, nil, true)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/projects", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
	}
}
