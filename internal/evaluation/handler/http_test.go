package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurehub/internal/evaluation/domain"
	"procurehub/internal/platform/access"
	"procurehub/internal/server/middleware"
	"procurehub/internal/validator"
)

type fakeRepo struct {
	rounds map[string]*domain.Round
}

func (f *fakeRepo) GetRoundByID(ctx context.Context, id string) (*domain.Round, error) {
	return f.rounds[id], nil
}

func (f *fakeRepo) ListRoundsByPackage(ctx context.Context, packageID string, kind domain.Kind) ([]*domain.Round, error) {
	var out []*domain.Round
	for _, r := range f.rounds {
		if r.PackageID == packageID && r.Kind == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateRound(ctx context.Context, r *domain.Round) error {
	f.rounds[r.ID] = r
	return nil
}

func (f *fakeRepo) UpdateRound(ctx context.Context, r *domain.Round) error {
	f.rounds[r.ID] = r
	return nil
}

func (f *fakeRepo) NextRoundNumber(ctx context.Context, packageID string, kind domain.Kind) (int, error) {
	max := 0
	for _, r := range f.rounds {
		if r.PackageID == packageID && r.Kind == kind && r.Number > max {
			max = r.Number
		}
	}
	return max + 1, nil
}

type fakeAccessStore struct {
	packages map[string]*access.PackageRow
}

func (f *fakeAccessStore) ProjectAccessRow(ctx context.Context, projectID, userID, orgID string) (*access.ProjectRow, error) {
	return nil, nil
}

func (f *fakeAccessStore) PackageAccessRow(ctx context.Context, packageID, userID, orgID string) (*access.PackageRow, error) {
	return f.packages[packageID], nil
}

func (f *fakeAccessStore) PackageRolesInProject(ctx context.Context, projectID, userID string) ([]access.PackageRole, error) {
	return nil, nil
}

// newTestApp mounts the handler behind identity injection for user-1 in org-1.
func newTestApp(repo *fakeRepo, store *fakeAccessStore) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(middleware.WithIdentity(c.UserContext(), "user-1", "org-1", "user1@example.com", "sess-1"))
		return c.Next()
	})
	h := NewHandler(repo, access.NewResolver(store), validator.New())
	h.Register(app.Group("/v1"))
	return app
}

// technicalTeamStore grants user-1 technical_team on pkg-1.
func technicalTeamStore() *fakeAccessStore {
	return &fakeAccessStore{packages: map[string]*access.PackageRow{
		"pkg-1": {ProjectID: "proj-1", OrgID: "org-1", PackageRole: access.PackageRoleTechnicalTeam},
	}}
}

// leadStore grants user-1 package_lead (full access) on pkg-1.
func leadStore() *fakeAccessStore {
	return &fakeAccessStore{packages: map[string]*access.PackageRow{
		"pkg-1": {ProjectID: "proj-1", OrgID: "org-1", PackageRole: access.PackageRoleLead},
	}}
}

func openRound(id string, kind domain.Kind) *domain.Round {
	return &domain.Round{
		ID: id, PackageID: "pkg-1", Kind: kind, Number: 1,
		Status: domain.RoundStatusOpen,
		Scores: domain.ContractorScores{
			"acme":   {"quality": 40, "schedule": 30},
			"globex": {"quality": 35, "schedule": 20},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestGetRound_TechnicalTeamSeesTechnical(t *testing.T) {
	repo := &fakeRepo{rounds: map[string]*domain.Round{"r-1": openRound("r-1", domain.KindTechnical)}}
	app := newTestApp(repo, technicalTeamStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/rounds/r-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetRound_TechnicalTeamBlockedFromCommercial(t *testing.T) {
	repo := &fakeRepo{rounds: map[string]*domain.Round{"r-1": openRound("r-1", domain.KindCommercial)}}
	app := newTestApp(repo, technicalTeamStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/rounds/r-1", nil))
	require.NoError(t, err)
	// The package itself is visible, so this is a 403, not a 404.
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGetRound_InvisiblePackageReadsAsNotFound(t *testing.T) {
	repo := &fakeRepo{rounds: map[string]*domain.Round{"r-1": openRound("r-1", domain.KindTechnical)}}
	app := newTestApp(repo, &fakeAccessStore{packages: map[string]*access.PackageRow{}})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/rounds/r-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListRounds_RequiresValidKind(t *testing.T) {
	repo := &fakeRepo{rounds: map[string]*domain.Round{}}
	app := newTestApp(repo, leadStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/packages/pkg-1/rounds?kind=financial", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateRound_NumbersPerKind(t *testing.T) {
	repo := &fakeRepo{rounds: map[string]*domain.Round{"r-1": openRound("r-1", domain.KindTechnical)}}
	app := newTestApp(repo, leadStore())

	req := httptest.NewRequest("POST", "/v1/packages/pkg-1/rounds", strings.NewReader(`{"kind":"technical"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Number int    `json:"number"`
		Kind   string `json:"kind"`
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Number)
	assert.Equal(t, "technical", body.Kind)
	assert.Equal(t, "open", body.Status)

	// A commercial round on the same package starts back at 1.
	req = httptest.NewRequest("POST", "/v1/packages/pkg-1/rounds", strings.NewReader(`{"kind":"commercial"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Number)
}

func TestCreateRound_RequiresFullAccess(t *testing.T) {
	repo := &fakeRepo{rounds: map[string]*domain.Round{}}
	app := newTestApp(repo, technicalTeamStore())

	req := httptest.NewRequest("POST", "/v1/packages/pkg-1/rounds", strings.NewReader(`{"kind":"technical"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGetSummary_TotalsSorted(t *testing.T) {
	repo := &fakeRepo{rounds: map[string]*domain.Round{"r-1": openRound("r-1", domain.KindTechnical)}}
	app := newTestApp(repo, technicalTeamStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/rounds/r-1/summary", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Totals []domain.ContractorTotal `json:"totals"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Totals, 2)
	assert.Equal(t, "acme", body.Totals[0].Contractor)
	assert.Equal(t, 70.0, body.Totals[0].Total)
	assert.Equal(t, "globex", body.Totals[1].Contractor)
	assert.Equal(t, 55.0, body.Totals[1].Total)
}

func TestUpdateScores_ClosedRoundRejected(t *testing.T) {
	r := openRound("r-1", domain.KindTechnical)
	now := time.Now().UTC()
	r.Status = domain.RoundStatusClosed
	r.ClosedAt = &now
	repo := &fakeRepo{rounds: map[string]*domain.Round{"r-1": r}}
	app := newTestApp(repo, leadStore())

	req := httptest.NewRequest("PATCH", "/v1/rounds/r-1", strings.NewReader(`{"scores":{"acme":{"quality":50}}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCloseRound(t *testing.T) {
	repo := &fakeRepo{rounds: map[string]*domain.Round{"r-1": openRound("r-1", domain.KindTechnical)}}
	app := newTestApp(repo, leadStore())

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/rounds/r-1/close", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.RoundStatusClosed, repo.rounds["r-1"].Status)
	require.NotNil(t, repo.rounds["r-1"].ClosedAt)

	// Second close conflicts.
	resp, err = app.Test(httptest.NewRequest("POST", "/v1/rounds/r-1/close", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
