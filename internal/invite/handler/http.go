package handler

import (
	"github.com/gofiber/fiber/v2"

	"procurehub/internal/invite"
	"procurehub/internal/server/middleware"
)

// Handler exposes invite reconciliation. The identity provider (or the client
// right after sign-in) calls it so email invitations become active
// memberships before the user's first access check.
type Handler struct {
	reconciler *invite.Reconciler
}

// NewHandler returns a new invite HTTP handler.
func NewHandler(reconciler *invite.Reconciler) *Handler {
	return &Handler{reconciler: reconciler}
}

// Register mounts invite routes on the given router group.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/invites/reconcile", h.Reconcile)
}

// Reconcile links the caller's pending invitations to their user id. Identity
// comes from the token; the request carries no body.
func (h *Handler) Reconcile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, ok := middleware.GetUserID(ctx)
	if !ok || userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "user context required")
	}
	email, _ := middleware.GetEmail(ctx)
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token carries no email")
	}
	linked, err := h.reconciler.Reconcile(ctx, userID, email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reconcile invites")
	}
	return c.JSON(fiber.Map{"linked": linked})
}
