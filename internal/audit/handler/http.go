package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"procurehub/internal/audit/domain"
	"procurehub/internal/audit/repository"
	membershiprepo "procurehub/internal/membership/repository"
	"procurehub/internal/platform/access"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Handler serves the org's audit trail. Caller must be org admin or owner.
type Handler struct {
	repo           repository.Repository
	membershipRepo membershiprepo.Repository
}

// NewHandler returns a new audit HTTP handler.
func NewHandler(repo repository.Repository, membershipRepo membershiprepo.Repository) *Handler {
	return &Handler{repo: repo, membershipRepo: membershipRepo}
}

// Register mounts audit routes on the given router group.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/audit-logs", h.ListAuditLogs)
}

type auditLogResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	UserID    string    `json:"userId,omitempty"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(a *domain.AuditLog) auditLogResponse {
	return auditLogResponse{
		ID:        a.ID,
		OrgID:     a.OrgID,
		UserID:    a.UserID,
		Action:    a.Action,
		Resource:  a.Resource,
		IP:        a.IP,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
}

// ListAuditLogs returns the org's audit entries, newest first. Supports limit
// and offset query parameters.
func (h *Handler) ListAuditLogs(c *fiber.Ctx) error {
	orgID, _, err := access.RequireOrgAdmin(c.UserContext(), h.membershipRepo)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	logs, err := h.repo.ListByOrg(c.UserContext(), orgID, int32(limit), int32(offset))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list audit logs")
	}
	out := make([]auditLogResponse, 0, len(logs))
	for _, a := range logs {
		out = append(out, toResponse(a))
	}
	return c.JSON(fiber.Map{"auditLogs": out})
}
