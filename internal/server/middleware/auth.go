package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"procurehub/internal/security"
)

const bearerPrefix = "bearer "

// BearerAuth returns a Fiber middleware that validates the Bearer (access) token
// from the Authorization header and sets user_id, org_id, email, session_id on
// the request's user context for protected routes.
// publicPaths is the set of "METHOD /path" route keys that do not require a
// Bearer token (e.g. GET /v1/health).
func BearerAuth(tokens *security.TokenValidator, publicPaths map[string]bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c.Get(fiber.HeaderAuthorization))
		public := publicPaths[c.Method()+" "+c.Path()]

		if token == "" {
			if public {
				return c.Next()
			}
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid authorization")
		}

		id, err := tokens.ValidateAccess(token)
		if err != nil {
			if public {
				return c.Next()
			}
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid authorization")
		}

		c.SetUserContext(WithIdentity(c.UserContext(), id.UserID, id.OrgID, id.Email, id.SessionID))
		return c.Next()
	}
}

// extractBearer returns the Bearer token from an Authorization header value,
// or "" if missing or malformed.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
