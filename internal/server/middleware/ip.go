package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIP returns the client IP from forwarding headers (X-Forwarded-For,
// X-Real-IP) or the remote address, or "unknown".
func ClientIP(c *fiber.Ctx) string {
	if s := strings.TrimSpace(c.Get(fiber.HeaderXForwardedFor)); s != "" {
		if i := strings.Index(s, ","); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
		return s
	}
	if s := strings.TrimSpace(c.Get("X-Real-IP")); s != "" {
		return s
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
