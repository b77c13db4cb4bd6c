package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves readiness for Kubernetes, load balancers, and CI.
type Handler struct {
	db Pinger
}

// NewHandler returns a new health HTTP handler. db may be nil; then only
// process liveness is reported.
func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// Register mounts the health route on the given router group.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/health", h.HealthCheck)
}

// HealthCheck pings the database and reports overall status.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	overall, dbStatus := "ok", "ok"
	status := fiber.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			overall, dbStatus = "degraded", "unreachable"
			status = fiber.StatusServiceUnavailable
		}
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   overall,
		"database": dbStatus,
	})
}
