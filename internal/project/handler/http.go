package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	membershiprepo "procurehub/internal/membership/repository"
	"procurehub/internal/platform/access"
	"procurehub/internal/project/domain"
	"procurehub/internal/project/repository"
	"procurehub/internal/validator"
	workpackagedomain "procurehub/internal/workpackage/domain"
	workpackagerepo "procurehub/internal/workpackage/repository"
)

// Handler serves projects, project memberships, and the packages nested under
// a project. Reads require resolved access; mutations require full access.
// Projects the caller cannot access read as 404.
type Handler struct {
	repo           repository.Repository
	packageRepo    workpackagerepo.Repository
	membershipRepo membershiprepo.Repository
	resolver       *access.Resolver
	validate       *validator.Validator
}

// NewHandler returns a new project HTTP handler.
func NewHandler(
	repo repository.Repository,
	packageRepo workpackagerepo.Repository,
	membershipRepo membershiprepo.Repository,
	resolver *access.Resolver,
	validate *validator.Validator,
) *Handler {
	return &Handler{
		repo:           repo,
		packageRepo:    packageRepo,
		membershipRepo: membershipRepo,
		resolver:       resolver,
		validate:       validate,
	}
}

// Register mounts project routes on the given router group.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/projects", h.CreateProject)
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/:projectID", h.GetProject)
	r.Patch("/projects/:projectID", h.UpdateProject)

	r.Get("/projects/:projectID/members", h.ListMembers)
	r.Post("/projects/:projectID/members", h.AddMember)
	r.Delete("/projects/:projectID/members/:memberID", h.RemoveMember)

	r.Get("/projects/:projectID/packages", h.ListPackages)
	r.Post("/projects/:projectID/packages", h.CreatePackage)
}

type projectResponse struct {
	ID            string    `json:"id"`
	OrgID         string    `json:"orgId"`
	CreatorUserID string    `json:"creatorUserId"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:            p.ID,
		OrgID:         p.OrgID,
		CreatorUserID: p.CreatorUserID,
		Name:          p.Name,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
	}
}

type memberResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	UserID       string    `json:"userId,omitempty"`
	InvitedEmail string    `json:"invitedEmail,omitempty"`
	Role         string    `json:"role"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		UserID:       m.UserID,
		InvitedEmail: m.InvitedEmail,
		Role:         string(m.Role),
		State:        string(m.State),
		CreatedAt:    m.CreatedAt,
	}
}

type packageResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPackageResponse(p *workpackagedomain.Package) packageResponse {
	return packageResponse{
		ID:        p.ID,
		ProjectID: p.ProjectID,
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

type createProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CreateProject creates a project in the caller's org. Any org member may
// create; the creator holds full access from then on.
func (h *Handler) CreateProject(c *fiber.Ctx) error {
	orgID, userID, err := access.RequireOrgMember(c.UserContext(), h.membershipRepo)
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	p := &domain.Project{
		ID:            uuid.New().String(),
		OrgID:         orgID,
		CreatorUserID: userID,
		Name:          req.Name,
		Status:        domain.StatusActive,
		CreatedAt:     time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := h.repo.CreateProject(c.UserContext(), p); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create project")
	}
	return c.Status(fiber.StatusCreated).JSON(toProjectResponse(p))
}

// ListProjects returns the projects in the caller's org that the caller can
// access, each with the caller's resolved access.
func (h *Handler) ListProjects(c *fiber.Ctx) error {
	orgID, userID, err := access.RequireOrgMember(c.UserContext(), h.membershipRepo)
	if err != nil {
		return err
	}
	projects, err := h.repo.ListProjectsByOrg(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list projects")
	}
	type entry struct {
		projectResponse
		Access access.Result `json:"accessInfo"`
	}
	out := make([]entry, 0, len(projects))
	for _, p := range projects {
		res, err := h.resolver.ResolveProject(c.UserContext(), userID, p.ID, orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve access")
		}
		if res.Level == access.LevelNone {
			continue
		}
		out = append(out, entry{projectResponse: toProjectResponse(p), Access: res})
	}
	return c.JSON(fiber.Map{"projects": out})
}

// GetProject returns one project together with the caller's resolved access.
func (h *Handler) GetProject(c *fiber.Ctx) error {
	projectID := c.Params("projectID")
	_, res, err := access.RequireProjectAccess(c.UserContext(), h.resolver, projectID)
	if err != nil {
		return err
	}
	p, err := h.repo.GetProjectByID(c.UserContext(), projectID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get project")
	}
	if p == nil {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"project": toProjectResponse(p), "accessInfo": res})
}

type updateProjectRequest struct {
	Name   string `json:"name" validate:"omitempty,min=1,max=200"`
	Status string `json:"status" validate:"omitempty,oneof=active archived"`
}

// UpdateProject renames or archives a project. Requires full access.
func (h *Handler) UpdateProject(c *fiber.Ctx) error {
	projectID := c.Params("projectID")
	_, _, err := access.RequireProjectManage(c.UserContext(), h.resolver, projectID)
	if err != nil {
		return err
	}
	var req updateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid name or status")
	}
	if req.Name == "" && req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "nothing to update")
	}
	p, err := h.repo.GetProjectByID(c.UserContext(), projectID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get project")
	}
	if p == nil {
		return fiber.ErrNotFound
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Status != "" {
		p.Status = domain.Status(req.Status)
	}
	if err := h.repo.UpdateProject(c.UserContext(), p); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update project")
	}
	return c.JSON(toProjectResponse(p))
}

// ListMembers returns active and invited memberships for a project.
func (h *Handler) ListMembers(c *fiber.Ctx) error {
	projectID := c.Params("projectID")
	_, _, err := access.RequireProjectAccess(c.UserContext(), h.resolver, projectID)
	if err != nil {
		return err
	}
	members, err := h.repo.ListMembersByProject(c.UserContext(), projectID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list members")
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	return c.JSON(fiber.Map{"members": out})
}

type addMemberRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email" validate:"omitempty,email"`
	Role   string `json:"role" validate:"required"`
}

// AddMember adds a project member. With userId the membership is active; with
// email it is a pending invitation that grants no access until the invitee
// signs in and is reconciled. Requires full access.
func (h *Handler) AddMember(c *fiber.Ctx) error {
	projectID := c.Params("projectID")
	_, _, err := access.RequireProjectManage(c.UserContext(), h.resolver, projectID)
	if err != nil {
		return err
	}
	var req addMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid member payload")
	}
	role := domain.MemberRole(req.Role)
	if !domain.ValidMemberRole(role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project role")
	}
	if (req.UserID == "") == (req.Email == "") {
		return fiber.NewError(fiber.StatusBadRequest, "exactly one of userId or email is required")
	}

	var m *domain.Member
	if req.UserID != "" {
		existing, err := h.repo.GetMemberByProjectAndUser(c.UserContext(), projectID, req.UserID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to check membership")
		}
		if existing != nil {
			return fiber.NewError(fiber.StatusConflict, "user is already a member")
		}
		m = domain.NewActiveMember(uuid.New().String(), projectID, req.UserID, role)
	} else {
		existing, err := h.repo.GetMemberByProjectAndEmail(c.UserContext(), projectID, req.Email)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to check membership")
		}
		if existing != nil {
			return fiber.NewError(fiber.StatusConflict, "email is already invited")
		}
		m = domain.NewInvitedMember(uuid.New().String(), projectID, req.Email, role)
	}
	if err := m.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := h.repo.AddMember(c.UserContext(), m); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to add member")
	}
	return c.Status(fiber.StatusCreated).JSON(toMemberResponse(m))
}

// RemoveMember removes a project membership (active or invited). Requires full access.
func (h *Handler) RemoveMember(c *fiber.Ctx) error {
	projectID := c.Params("projectID")
	_, _, err := access.RequireProjectManage(c.UserContext(), h.resolver, projectID)
	if err != nil {
		return err
	}
	memberID := c.Params("memberID")
	members, err := h.repo.ListMembersByProject(c.UserContext(), projectID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list members")
	}
	found := false
	for _, m := range members {
		if m.ID == memberID {
			found = true
			break
		}
	}
	if !found {
		return fiber.ErrNotFound
	}
	if err := h.repo.RemoveMember(c.UserContext(), memberID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to remove member")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPackages returns the packages under a project.
func (h *Handler) ListPackages(c *fiber.Ctx) error {
	projectID := c.Params("projectID")
	_, _, err := access.RequireProjectAccess(c.UserContext(), h.resolver, projectID)
	if err != nil {
		return err
	}
	packages, err := h.packageRepo.ListPackagesByProject(c.UserContext(), projectID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list packages")
	}
	out := make([]packageResponse, 0, len(packages))
	for _, p := range packages {
		out = append(out, toPackageResponse(p))
	}
	return c.JSON(fiber.Map{"packages": out})
}

type createPackageRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CreatePackage creates a package under a project. Requires full access on
// the project.
func (h *Handler) CreatePackage(c *fiber.Ctx) error {
	projectID := c.Params("projectID")
	_, _, err := access.RequireProjectManage(c.UserContext(), h.resolver, projectID)
	if err != nil {
		return err
	}
	var req createPackageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	p := &workpackagedomain.Package{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      req.Name,
		Status:    workpackagedomain.StatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := h.packageRepo.CreatePackage(c.UserContext(), p); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create package")
	}
	return c.Status(fiber.StatusCreated).JSON(toPackageResponse(p))
}
