package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"procurehub/internal/platform/access"
	"procurehub/internal/validator"
	"procurehub/internal/workpackage/domain"
	"procurehub/internal/workpackage/repository"
)

// Handler serves packages and package memberships. Access is resolved per
// package; packages the caller cannot see read as 404.
type Handler struct {
	repo     repository.Repository
	resolver *access.Resolver
	validate *validator.Validator
}

// NewHandler returns a new package HTTP handler.
func NewHandler(repo repository.Repository, resolver *access.Resolver, validate *validator.Validator) *Handler {
	return &Handler{repo: repo, resolver: resolver, validate: validate}
}

// Register mounts package routes on the given router group.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/packages/:packageID", h.GetPackage)
	r.Patch("/packages/:packageID", h.UpdatePackage)

	r.Get("/packages/:packageID/members", h.ListMembers)
	r.Post("/packages/:packageID/members", h.AddMember)
	r.Delete("/packages/:packageID/members/:memberID", h.RemoveMember)
}

type packageResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPackageResponse(p *domain.Package) packageResponse {
	return packageResponse{
		ID:        p.ID,
		ProjectID: p.ProjectID,
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

type memberResponse struct {
	ID        string    `json:"id"`
	PackageID string    `json:"packageId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		ID:        m.ID,
		PackageID: m.PackageID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

// GetPackage returns one package together with the caller's resolved access.
func (h *Handler) GetPackage(c *fiber.Ctx) error {
	packageID := c.Params("packageID")
	_, res, err := access.RequirePackageAccess(c.UserContext(), h.resolver, packageID)
	if err != nil {
		return err
	}
	p, err := h.repo.GetPackageByID(c.UserContext(), packageID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get package")
	}
	if p == nil {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"package": toPackageResponse(p), "accessInfo": res})
}

type updatePackageRequest struct {
	Name   string `json:"name" validate:"omitempty,min=1,max=200"`
	Status string `json:"status" validate:"omitempty,oneof=active archived"`
}

// UpdatePackage renames or archives a package. Requires full access.
func (h *Handler) UpdatePackage(c *fiber.Ctx) error {
	packageID := c.Params("packageID")
	_, _, err := access.RequirePackageManage(c.UserContext(), h.resolver, packageID)
	if err != nil {
		return err
	}
	var req updatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid name or status")
	}
	if req.Name == "" && req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "nothing to update")
	}
	p, err := h.repo.GetPackageByID(c.UserContext(), packageID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get package")
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
	if err := h.repo.UpdatePackage(c.UserContext(), p); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update package")
	}
	return c.JSON(toPackageResponse(p))
}

// ListMembers returns the package's memberships.
func (h *Handler) ListMembers(c *fiber.Ctx) error {
	packageID := c.Params("packageID")
	_, _, err := access.RequirePackageAccess(c.UserContext(), h.resolver, packageID)
	if err != nil {
		return err
	}
	members, err := h.repo.ListMembersByPackage(c.UserContext(), packageID)
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
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// AddMember adds a user to the package. Requires full access.
func (h *Handler) AddMember(c *fiber.Ctx) error {
	packageID := c.Params("packageID")
	_, _, err := access.RequirePackageManage(c.UserContext(), h.resolver, packageID)
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
	role := domain.MemberRole(req.Role)
	if !domain.ValidMemberRole(role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid package role")
	}
	existing, err := h.repo.GetMemberByPackageAndUser(c.UserContext(), packageID, req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to check membership")
	}
	if existing != nil {
		return fiber.NewError(fiber.StatusConflict, "user is already a member")
	}
	m := &domain.Member{
		ID:        uuid.New().String(),
		PackageID: packageID,
		UserID:    req.UserID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.AddMember(c.UserContext(), m); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to add member")
	}
	return c.Status(fiber.StatusCreated).JSON(toMemberResponse(m))
}

// RemoveMember removes a package membership. Requires full access.
func (h *Handler) RemoveMember(c *fiber.Ctx) error {
	packageID := c.Params("packageID")
	_, _, err := access.RequirePackageManage(c.UserContext(), h.resolver, packageID)
	if err != nil {
		return err
	}
	memberID := c.Params("memberID")
	members, err := h.repo.ListMembersByPackage(c.UserContext(), packageID)
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
