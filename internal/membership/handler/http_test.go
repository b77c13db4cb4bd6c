package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurehub/internal/membership/domain"
	"procurehub/internal/server/middleware"
	"procurehub/internal/validator"
)

type fakeRepo struct {
	byUserOrg map[string]*domain.Membership
}

func key(userID, orgID string) string { return userID + "|" + orgID }

func (f *fakeRepo) GetMembershipByID(ctx context.Context, id string) (*domain.Membership, error) {
	return nil, nil
}

func (f *fakeRepo) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	return f.byUserOrg[key(userID, orgID)], nil
}

func (f *fakeRepo) ListMembershipsByOrg(ctx context.Context, orgID string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, m := range f.byUserOrg {
		if m.OrgID == orgID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateMembership(ctx context.Context, m *domain.Membership) error {
	f.byUserOrg[key(m.UserID, m.OrgID)] = m
	return nil
}

func (f *fakeRepo) DeleteByUserAndOrg(ctx context.Context, userID, orgID string) error {
	delete(f.byUserOrg, key(userID, orgID))
	return nil
}

func (f *fakeRepo) UpdateRole(ctx context.Context, userID, orgID string, role domain.Role) (*domain.Membership, error) {
	m := f.byUserOrg[key(userID, orgID)]
	if m != nil {
		m.Role = role
	}
	return m, nil
}

func (f *fakeRepo) CountOwnersByOrg(ctx context.Context, orgID string) (int64, error) {
	var n int64
	for _, m := range f.byUserOrg {
		if m.OrgID == orgID && m.Role == domain.RoleOwner {
			n++
		}
	}
	return n, nil
}

// newTestApp mounts the handler with identity injected for callerID in org-1.
func newTestApp(repo *fakeRepo, callerID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(middleware.WithIdentity(c.UserContext(), callerID, "org-1", "", "sess-1"))
		return c.Next()
	})
	NewHandler(repo, validator.New()).Register(app.Group("/v1"))
	return app
}

func soleOwnerRepo() *fakeRepo {
	return &fakeRepo{byUserOrg: map[string]*domain.Membership{
		key("owner-1", "org-1"):  {ID: "m-1", UserID: "owner-1", OrgID: "org-1", Role: domain.RoleOwner},
		key("member-1", "org-1"): {ID: "m-2", UserID: "member-1", OrgID: "org-1", Role: domain.RoleMember},
	}}
}

func TestListMembers_AnyMember(t *testing.T) {
	app := newTestApp(soleOwnerRepo(), "member-1")

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/organizations/org-1/members", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAddMember_RequiresAdmin(t *testing.T) {
	app := newTestApp(soleOwnerRepo(), "member-1")

	req := httptest.NewRequest("POST", "/v1/organizations/org-1/members", strings.NewReader(`{"userId":"new-user","role":"member"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAddMember_Owner(t *testing.T) {
	repo := soleOwnerRepo()
	app := newTestApp(repo, "owner-1")

	req := httptest.NewRequest("POST", "/v1/organizations/org-1/members", strings.NewReader(`{"userId":"new-user","role":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, repo.byUserOrg[key("new-user", "org-1")])
	assert.Equal(t, domain.RoleAdmin, repo.byUserOrg[key("new-user", "org-1")].Role)
}

func TestAddMember_DuplicateConflicts(t *testing.T) {
	app := newTestApp(soleOwnerRepo(), "owner-1")

	req := httptest.NewRequest("POST", "/v1/organizations/org-1/members", strings.NewReader(`{"userId":"member-1","role":"member"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestChangeRole_LastOwnerProtected(t *testing.T) {
	app := newTestApp(soleOwnerRepo(), "owner-1")

	req := httptest.NewRequest("PATCH", "/v1/organizations/org-1/members/owner-1", strings.NewReader(`{"role":"member"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestChangeRole_SecondOwnerAllowsDemotion(t *testing.T) {
	repo := soleOwnerRepo()
	repo.byUserOrg[key("owner-2", "org-1")] = &domain.Membership{ID: "m-3", UserID: "owner-2", OrgID: "org-1", Role: domain.RoleOwner}
	app := newTestApp(repo, "owner-1")

	req := httptest.NewRequest("PATCH", "/v1/organizations/org-1/members/owner-1", strings.NewReader(`{"role":"member"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.RoleMember, repo.byUserOrg[key("owner-1", "org-1")].Role)
}

func TestRemoveMember_LastOwnerProtected(t *testing.T) {
	app := newTestApp(soleOwnerRepo(), "owner-1")

	resp, err := app.Test(httptest.NewRequest("DELETE", "/v1/organizations/org-1/members/owner-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRemoveMember(t *testing.T) {
	repo := soleOwnerRepo()
	app := newTestApp(repo, "owner-1")

	resp, err := app.Test(httptest.NewRequest("DELETE", "/v1/organizations/org-1/members/member-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Nil(t, repo.byUserOrg[key("member-1", "org-1")])
}

func TestPathOrgMismatchReadsAsNotFound(t *testing.T) {
	app := newTestApp(soleOwnerRepo(), "owner-1")

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/organizations/org-2/members", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
