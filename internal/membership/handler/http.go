package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"procurehub/internal/membership/domain"
	"procurehub/internal/membership/repository"
	"procurehub/internal/platform/access"
	"procurehub/internal/validator"
)

// Handler serves organization membership management over HTTP. Mutations
// require org admin or owner; an organization always keeps at least one owner.
type Handler struct {
	repo     repository.Repository
	validate *validator.Validator
}

// NewHandler returns a new membership HTTP handler.
func NewHandler(repo repository.Repository, validate *validator.Validator) *Handler {
	return &Handler{repo: repo, validate: validate}
}

// Register mounts membership routes on the given router group.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/organizations/:orgID/members", h.ListMembers)
	r.Post("/organizations/:orgID/members", h.AddMember)
	r.Patch("/organizations/:orgID/members/:userID", h.ChangeRole)
	r.Delete("/organizations/:orgID/members/:userID", h.RemoveMember)
}

type membershipResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	OrgID     string    `json:"orgId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(m *domain.Membership) membershipResponse {
	return membershipResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		OrgID:     m.OrgID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

// requireOrgScope runs the guard and hides mismatched path orgs behind 404.
func (h *Handler) requireOrgScope(c *fiber.Ctx, admin bool) (orgID, userID string, err error) {
	if admin {
		orgID, userID, err = access.RequireOrgAdmin(c.UserContext(), h.repo)
	} else {
		orgID, userID, err = access.RequireOrgMember(c.UserContext(), h.repo)
	}
	if err != nil {
		return "", "", err
	}
	if c.Params("orgID") != orgID {
		return "", "", fiber.ErrNotFound
	}
	return orgID, userID, nil
}

// ListMembers returns all memberships in the caller's org. Caller must be a member.
func (h *Handler) ListMembers(c *fiber.Ctx) error {
	orgID, _, err := h.requireOrgScope(c, false)
	if err != nil {
		return err
	}
	members, err := h.repo.ListMembershipsByOrg(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list members")
	}
	out := make([]membershipResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toResponse(m))
	}
	return c.JSON(fiber.Map{"members": out})
}

type addMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// AddMember adds a user to the organization. Caller must be org admin or owner.
func (h *Handler) AddMember(c *fiber.Ctx) error {
	orgID, _, err := h.requireOrgScope(c, true)
	if err != nil {
		return err
	}
	var req addMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "userId and role are required")
	}
	role := domain.Role(req.Role)
	if !domain.ValidRole(role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}
	existing, err := h.repo.GetMembershipByUserAndOrg(c.UserContext(), req.UserID, orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to check membership")
	}
	if existing != nil {
		return fiber.NewError(fiber.StatusConflict, "user is already a member")
	}
	m := &domain.Membership{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		OrgID:     orgID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.CreateMembership(c.UserContext(), m); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to add member")
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(m))
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ChangeRole updates an existing membership's role. Caller must be org admin
// or owner. Demoting the last owner is rejected.
func (h *Handler) ChangeRole(c *fiber.Ctx) error {
	orgID, _, err := h.requireOrgScope(c, true)
	if err != nil {
		return err
	}
	targetUserID := c.Params("userID")
	var req changeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "role is required")
	}
	role := domain.Role(req.Role)
	if !domain.ValidRole(role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}
	existing, err := h.repo.GetMembershipByUserAndOrg(c.UserContext(), targetUserID, orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get membership")
	}
	if existing == nil {
		return fiber.ErrNotFound
	}
	if existing.Role == domain.RoleOwner && role != domain.RoleOwner {
		owners, err := h.repo.CountOwnersByOrg(c.UserContext(), orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to count owners")
		}
		if owners <= 1 {
			return fiber.NewError(fiber.StatusConflict, "organization must keep at least one owner")
		}
	}
	updated, err := h.repo.UpdateRole(c.UserContext(), targetUserID, orgID, role)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update role")
	}
	return c.JSON(toResponse(updated))
}

// RemoveMember removes a user from the organization. Caller must be org admin
// or owner. Removing the last owner is rejected.
func (h *Handler) RemoveMember(c *fiber.Ctx) error {
	orgID, _, err := h.requireOrgScope(c, true)
	if err != nil {
		return err
	}
	targetUserID := c.Params("userID")
	existing, err := h.repo.GetMembershipByUserAndOrg(c.UserContext(), targetUserID, orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get membership")
	}
	if existing == nil {
		return fiber.ErrNotFound
	}
	if existing.Role == domain.RoleOwner {
		owners, err := h.repo.CountOwnersByOrg(c.UserContext(), orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to count owners")
		}
		if owners <= 1 {
			return fiber.NewError(fiber.StatusConflict, "organization must keep at least one owner")
		}
	}
	if err := h.repo.DeleteByUserAndOrg(c.UserContext(), targetUserID, orgID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to remove member")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
