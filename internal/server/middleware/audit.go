package middleware

import (
	"github.com/gofiber/fiber/v2"

	"procurehub/internal/audit"
	auditrepo "procurehub/internal/audit/repository"
)

// Audit returns a Fiber middleware that records an audit log entry after each
// request. skipRoutes is the set of "METHOD /route-pattern" keys to not audit
// (e.g. GET /v1/health, optionally GET /v1/audit-logs).
// Writing is best-effort and only happens when org_id is set (authenticated context).
func Audit(auditRepo auditrepo.Repository, skipRoutes map[string]bool) fiber.Handler {
	logger := audit.NewLogger(auditRepo)
	return func(c *fiber.Ctx) error {
		err := c.Next()
		route := c.Method() + " " + c.Route().Path
		if skipRoutes[route] {
			return err
		}
		ctx := c.UserContext()
		orgID, _ := GetOrgID(ctx)
		if orgID == "" {
			return err
		}
		userID, _ := GetUserID(ctx)
		ar := audit.ParseRoute(c.Method(), c.Route().Path)
		logger.LogEvent(ctx, audit.Event{
			OrgID:    orgID,
			UserID:   userID,
			Action:   ar.Action,
			Resource: ar.Resource,
			IP:       ClientIP(c),
		})
		return err
	}
}
