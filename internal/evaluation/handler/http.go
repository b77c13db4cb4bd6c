package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"procurehub/internal/evaluation/domain"
	"procurehub/internal/evaluation/repository"
	"procurehub/internal/platform/access"
	"procurehub/internal/validator"
)

// Handler serves evaluation rounds. Reads are gated by the round's kind:
// technical rounds need technical visibility, commercial rounds commercial
// visibility. Creating, scoring, and closing rounds require full access.
type Handler struct {
	repo     repository.Repository
	resolver *access.Resolver
	validate *validator.Validator
}

// NewHandler returns a new evaluation HTTP handler.
func NewHandler(repo repository.Repository, resolver *access.Resolver, validate *validator.Validator) *Handler {
	return &Handler{repo: repo, resolver: resolver, validate: validate}
}

// Register mounts evaluation routes on the given router group.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/packages/:packageID/rounds", h.ListRounds)
	r.Post("/packages/:packageID/rounds", h.CreateRound)
	r.Get("/rounds/:roundID", h.GetRound)
	r.Patch("/rounds/:roundID", h.UpdateScores)
	r.Get("/rounds/:roundID/summary", h.GetSummary)
	r.Post("/rounds/:roundID/close", h.CloseRound)
}

type roundResponse struct {
	ID        string                  `json:"id"`
	PackageID string                  `json:"packageId"`
	Kind      string                  `json:"kind"`
	Number    int                     `json:"number"`
	Status    string                  `json:"status"`
	Scores    domain.ContractorScores `json:"scores"`
	CreatedAt time.Time               `json:"createdAt"`
	ClosedAt  *time.Time              `json:"closedAt,omitempty"`
}

func toResponse(r *domain.Round) roundResponse {
	return roundResponse{
		ID:        r.ID,
		PackageID: r.PackageID,
		Kind:      string(r.Kind),
		Number:    r.Number,
		Status:    string(r.Status),
		Scores:    r.Scores,
		CreatedAt: r.CreatedAt,
		ClosedAt:  r.ClosedAt,
	}
}

// requireKindView gates a read on the caller's visibility for the round's kind.
func (h *Handler) requireKindView(c *fiber.Ctx, packageID string, kind domain.Kind) error {
	var err error
	if kind == domain.KindTechnical {
		_, _, err = access.RequireTechnicalView(c.UserContext(), h.resolver, packageID)
	} else {
		_, _, err = access.RequireCommercialView(c.UserContext(), h.resolver, packageID)
	}
	return err
}

// ListRounds returns a package's rounds of one kind. The kind query parameter
// is required; visibility follows it.
func (h *Handler) ListRounds(c *fiber.Ctx) error {
	packageID := c.Params("packageID")
	kind := domain.Kind(c.Query("kind"))
	if !domain.ValidKind(kind) {
		return fiber.NewError(fiber.StatusBadRequest, "kind must be technical or commercial")
	}
	if err := h.requireKindView(c, packageID, kind); err != nil {
		return err
	}
	rounds, err := h.repo.ListRoundsByPackage(c.UserContext(), packageID, kind)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list rounds")
	}
	out := make([]roundResponse, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, toResponse(r))
	}
	return c.JSON(fiber.Map{"rounds": out})
}

type createRoundRequest struct {
	Kind string `json:"kind" validate:"required,oneof=technical commercial"`
}

// CreateRound opens a new round for the package. Numbering is per (package,
// kind) starting at 1. Requires full access.
func (h *Handler) CreateRound(c *fiber.Ctx) error {
	packageID := c.Params("packageID")
	_, _, err := access.RequirePackageManage(c.UserContext(), h.resolver, packageID)
	if err != nil {
		return err
	}
	var req createRoundRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "kind must be technical or commercial")
	}
	kind := domain.Kind(req.Kind)
	number, err := h.repo.NextRoundNumber(c.UserContext(), packageID, kind)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to number round")
	}
	r := &domain.Round{
		ID:        uuid.New().String(),
		PackageID: packageID,
		Kind:      kind,
		Number:    number,
		Status:    domain.RoundStatusOpen,
		Scores:    domain.ContractorScores{},
		CreatedAt: time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := h.repo.CreateRound(c.UserContext(), r); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create round")
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(r))
}

// getVisibleRound loads the round and enforces kind visibility. A round whose
// package the caller cannot see reads as 404; a visible package with
// insufficient kind capability is 403.
func (h *Handler) getVisibleRound(c *fiber.Ctx) (*domain.Round, error) {
	r, err := h.repo.GetRoundByID(c.UserContext(), c.Params("roundID"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to get round")
	}
	if r == nil {
		return nil, fiber.ErrNotFound
	}
	if err := h.requireKindView(c, r.PackageID, r.Kind); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRound returns one round with its scores.
func (h *Handler) GetRound(c *fiber.Ctx) error {
	r, err := h.getVisibleRound(c)
	if err != nil {
		return err
	}
	return c.JSON(toResponse(r))
}

// GetSummary returns per-contractor totals for one round.
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	r, err := h.getVisibleRound(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"roundId": r.ID,
		"kind":    string(r.Kind),
		"number":  r.Number,
		"totals":  r.Summary(),
	})
}

type updateScoresRequest struct {
	Scores domain.ContractorScores `json:"scores" validate:"required"`
}

// UpdateScores replaces the round's score sheet. Requires full access on the
// package; closed rounds reject score changes.
func (h *Handler) UpdateScores(c *fiber.Ctx) error {
	r, err := h.repo.GetRoundByID(c.UserContext(), c.Params("roundID"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get round")
	}
	if r == nil {
		return fiber.ErrNotFound
	}
	if _, _, err := access.RequirePackageManage(c.UserContext(), h.resolver, r.PackageID); err != nil {
		return err
	}
	if r.Status == domain.RoundStatusClosed {
		return fiber.NewError(fiber.StatusConflict, "round is closed")
	}
	var req updateScoresRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "scores are required")
	}
	r.Scores = req.Scores
	if err := h.repo.UpdateRound(c.UserContext(), r); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update scores")
	}
	return c.JSON(toResponse(r))
}

// CloseRound closes an open round. Requires full access; closing is idempotent
// in effect but a second close is rejected as a conflict.
func (h *Handler) CloseRound(c *fiber.Ctx) error {
	r, err := h.repo.GetRoundByID(c.UserContext(), c.Params("roundID"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get round")
	}
	if r == nil {
		return fiber.ErrNotFound
	}
	if _, _, err := access.RequirePackageManage(c.UserContext(), h.resolver, r.PackageID); err != nil {
		return err
	}
	if r.Status == domain.RoundStatusClosed {
		return fiber.NewError(fiber.StatusConflict, "round is already closed")
	}
	now := time.Now().UTC()
	r.Status = domain.RoundStatusClosed
	r.ClosedAt = &now
	if err := h.repo.UpdateRound(c.UserContext(), r); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to close round")
	}
	return c.JSON(toResponse(r))
}
