package middleware

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"procurehub/internal/telemetry"
	"procurehub/internal/telemetry/domain"
)

// httpRequestMetadata is the JSON shape stored in Event.Metadata for http_request events.
type httpRequestMetadata struct {
	Method     string `json:"method"`
	Route      string `json:"route"`
	StatusCode int    `json:"status_code"`
	DurationMs int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
}

// Telemetry returns a Fiber middleware that records OTel request metrics and
// emits a telemetry event after each request. Event emit is best-effort and
// async; if emitter is nil only metrics are recorded. skipRoutes is the set of
// "METHOD /route-pattern" keys to not instrument (e.g. GET /v1/health).
func Telemetry(emitter telemetry.EventEmitter, skipRoutes map[string]bool) fiber.Handler {
	meter := otel.GetMeterProvider().Meter("procurehub.http")
	requests, merr := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Completed HTTP requests."))
	if merr != nil {
		log.Printf("telemetry: create request counter: %v", merr)
	}
	duration, merr := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration."),
		metric.WithUnit("ms"))
	if merr != nil {
		log.Printf("telemetry: create duration histogram: %v", merr)
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		if skipRoutes[c.Method()+" "+route] {
			return err
		}

		status := c.Response().StatusCode()
		if ferr, ok := err.(*fiber.Error); ok {
			status = ferr.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		elapsed := time.Since(start)

		ctx := c.UserContext()
		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		if requests != nil {
			requests.Add(ctx, 1, attrs)
		}
		if duration != nil {
			duration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
		}

		if emitter != nil {
			meta := httpRequestMetadata{
				Method:     c.Method(),
				Route:      route,
				StatusCode: status,
				DurationMs: elapsed.Milliseconds(),
				ClientIP:   ClientIP(c),
			}
			metaJSON, _ := json.Marshal(meta)
			orgID, _ := GetOrgID(ctx)
			userID, _ := GetUserID(ctx)
			sessionID, _ := GetSessionID(ctx)
			telemetry.EmitAsync(emitter, ctx, &domain.Event{
				ID:        uuid.New().String(),
				OrgID:     orgID,
				UserID:    userID,
				SessionID: sessionID,
				EventType: "http_request",
				Source:    "http_middleware",
				Metadata:  metaJSON,
				CreatedAt: time.Now().UTC(),
			})
		}
		return err
	}
}
