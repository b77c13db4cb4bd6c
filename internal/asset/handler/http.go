package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"procurehub/internal/asset/domain"
	"procurehub/internal/asset/repository"
	"procurehub/internal/platform/access"
	"procurehub/internal/validator"
)

// Handler serves package assets. Reads require package access; mutations
// require full access. Assets whose package the caller cannot see read as 404.
type Handler struct {
	repo     repository.Repository
	resolver *access.Resolver
	validate *validator.Validator
}

// NewHandler returns a new asset HTTP handler.
func NewHandler(repo repository.Repository, resolver *access.Resolver, validate *validator.Validator) *Handler {
	return &Handler{repo: repo, resolver: resolver, validate: validate}
}

// Register mounts asset routes on the given router group.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/packages/:packageID/assets", h.ListAssets)
	r.Post("/packages/:packageID/assets", h.CreateAsset)
	r.Get("/assets/:assetID", h.GetAsset)
	r.Delete("/assets/:assetID", h.DeleteAsset)
}

type assetResponse struct {
	ID        string    `json:"id"`
	PackageID string    `json:"packageId"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	ObjectKey string    `json:"objectKey,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(a *domain.Asset) assetResponse {
	return assetResponse{
		ID:        a.ID,
		PackageID: a.PackageID,
		Name:      a.Name,
		Kind:      string(a.Kind),
		ObjectKey: a.ObjectKey,
		CreatedAt: a.CreatedAt,
	}
}

// ListAssets returns the assets of a package.
func (h *Handler) ListAssets(c *fiber.Ctx) error {
	packageID := c.Params("packageID")
	_, _, err := access.RequirePackageAccess(c.UserContext(), h.resolver, packageID)
	if err != nil {
		return err
	}
	assets, err := h.repo.ListAssetsByPackage(c.UserContext(), packageID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list assets")
	}
	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, toResponse(a))
	}
	return c.JSON(fiber.Map{"assets": out})
}

type createAssetRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Kind      string `json:"kind" validate:"omitempty,oneof=document drawing specification"`
	ObjectKey string `json:"objectKey" validate:"omitempty,max=1000"`
}

// CreateAsset registers an asset on a package. Requires full access. The
// content itself is uploaded to object storage out of band; ObjectKey points at it.
func (h *Handler) CreateAsset(c *fiber.Ctx) error {
	packageID := c.Params("packageID")
	_, _, err := access.RequirePackageManage(c.UserContext(), h.resolver, packageID)
	if err != nil {
		return err
	}
	var req createAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid asset payload")
	}
	a := &domain.Asset{
		ID:        uuid.New().String(),
		PackageID: packageID,
		Name:      req.Name,
		Kind:      domain.Kind(req.Kind),
		ObjectKey: req.ObjectKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := h.repo.CreateAsset(c.UserContext(), a); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create asset")
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(a))
}

// GetAsset returns one asset, guarded by access to its package.
func (h *Handler) GetAsset(c *fiber.Ctx) error {
	a, err := h.repo.GetAssetByID(c.UserContext(), c.Params("assetID"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get asset")
	}
	if a == nil {
		return fiber.ErrNotFound
	}
	if _, _, err := access.RequirePackageAccess(c.UserContext(), h.resolver, a.PackageID); err != nil {
		return err
	}
	return c.JSON(toResponse(a))
}

// DeleteAsset removes an asset. Requires full access on its package.
func (h *Handler) DeleteAsset(c *fiber.Ctx) error {
	a, err := h.repo.GetAssetByID(c.UserContext(), c.Params("assetID"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get asset")
	}
	if a == nil {
		return fiber.ErrNotFound
	}
	if _, _, err := access.RequirePackageManage(c.UserContext(), h.resolver, a.PackageID); err != nil {
		return err
	}
	if err := h.repo.DeleteAsset(c.UserContext(), a.ID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete asset")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
