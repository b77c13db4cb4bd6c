package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	membershipdomain "procurehub/internal/membership/domain"
	membershiprepo "procurehub/internal/membership/repository"
	"procurehub/internal/organization/domain"
	"procurehub/internal/organization/repository"
	"procurehub/internal/platform/access"
	"procurehub/internal/server/middleware"
	"procurehub/internal/validator"
)

// Handler serves organization management over HTTP. Creating an organization
// grants the creator an owner membership in the same request.
type Handler struct {
	repo           repository.Repository
	membershipRepo membershiprepo.Repository
	validate       *validator.Validator
}

// NewHandler returns a new organization HTTP handler.
func NewHandler(repo repository.Repository, membershipRepo membershiprepo.Repository, validate *validator.Validator) *Handler {
	return &Handler{repo: repo, membershipRepo: membershipRepo, validate: validate}
}

// Register mounts organization routes on the given router group.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/organizations", h.CreateOrganization)
	r.Get("/organizations", h.ListOrganizations)
	r.Get("/organizations/:orgID", h.GetOrganization)
	r.Patch("/organizations/:orgID", h.UpdateOrganization)
}

type organizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(o *domain.Org) organizationResponse {
	return organizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

type createOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CreateOrganization creates an organization and an owner membership for the
// caller. Any authenticated user may create an organization.
func (h *Handler) CreateOrganization(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c.UserContext())
	if !ok || userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "user context required")
	}
	var req createOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	org := &domain.Org{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Status:    domain.OrgStatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := org.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := h.repo.CreateOrganization(c.UserContext(), org); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create organization")
	}
	owner := &membershipdomain.Membership{
		ID:        uuid.New().String(),
		UserID:    userID,
		OrgID:     org.ID,
		Role:      membershipdomain.RoleOwner,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.membershipRepo.CreateMembership(c.UserContext(), owner); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create owner membership")
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(org))
}

// ListOrganizations returns the organizations the caller belongs to.
func (h *Handler) ListOrganizations(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c.UserContext())
	if !ok || userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "user context required")
	}
	orgs, err := h.repo.ListOrganizationsByUser(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list organizations")
	}
	out := make([]organizationResponse, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, toResponse(o))
	}
	return c.JSON(fiber.Map{"organizations": out})
}

// GetOrganization returns the caller's organization. The path org must match
// the token's org; other organizations read as 404.
func (h *Handler) GetOrganization(c *fiber.Ctx) error {
	orgID, _, err := access.RequireOrgMember(c.UserContext(), h.membershipRepo)
	if err != nil {
		return err
	}
	if c.Params("orgID") != orgID {
		return fiber.ErrNotFound
	}
	org, err := h.repo.GetOrganizationByID(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get organization")
	}
	if org == nil {
		return fiber.ErrNotFound
	}
	return c.JSON(toResponse(org))
}

type updateOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// UpdateOrganization renames the organization. Caller must be org admin or owner.
func (h *Handler) UpdateOrganization(c *fiber.Ctx) error {
	orgID, _, err := access.RequireOrgAdmin(c.UserContext(), h.membershipRepo)
	if err != nil {
		return err
	}
	if c.Params("orgID") != orgID {
		return fiber.ErrNotFound
	}
	var req updateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	org, err := h.repo.GetOrganizationByID(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get organization")
	}
	if org == nil {
		return fiber.ErrNotFound
	}
	org.Name = req.Name
	if err := h.repo.UpdateOrganization(c.UserContext(), org); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update organization")
	}
	return c.JSON(toResponse(org))
}
