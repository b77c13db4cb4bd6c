// Package server assembles the HTTP API: middleware chain, feature handlers,
// and route registration.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	assethandler "procurehub/internal/asset/handler"
	assetrepo "procurehub/internal/asset/repository"
	audithandler "procurehub/internal/audit/handler"
	auditrepo "procurehub/internal/audit/repository"
	evaluationhandler "procurehub/internal/evaluation/handler"
	evaluationrepo "procurehub/internal/evaluation/repository"
	healthhandler "procurehub/internal/health/handler"
	"procurehub/internal/invite"
	invitehandler "procurehub/internal/invite/handler"
	membershiphandler "procurehub/internal/membership/handler"
	membershiprepo "procurehub/internal/membership/repository"
	organizationhandler "procurehub/internal/organization/handler"
	organizationrepo "procurehub/internal/organization/repository"
	"procurehub/internal/platform/access"
	projecthandler "procurehub/internal/project/handler"
	projectrepo "procurehub/internal/project/repository"
	"procurehub/internal/security"
	"procurehub/internal/server/middleware"
	"procurehub/internal/telemetry"
	"procurehub/internal/validator"
	workpackagehandler "procurehub/internal/workpackage/handler"
	workpackagerepo "procurehub/internal/workpackage/repository"
)

// Deps holds the dependencies the HTTP server wires into middleware and handlers.
type Deps struct {
	// Tokens validates Bearer access tokens. Required.
	Tokens *security.TokenValidator
	// AccessStore backs the access resolver. Required.
	AccessStore access.Store

	OrganizationRepo organizationrepo.Repository
	MembershipRepo   membershiprepo.Repository
	ProjectRepo      projectrepo.Repository
	PackageRepo      workpackagerepo.Repository
	AssetRepo        assetrepo.Repository
	EvaluationRepo   evaluationrepo.Repository
	// AuditRepo persists the audit trail. If nil, requests are not audited
	// and the audit-log listing is not mounted.
	AuditRepo auditrepo.Repository

	// Emitter receives per-request telemetry events. May be nil.
	Emitter telemetry.EventEmitter
	// HealthPinger is used for readiness (e.g. *sql.DB). May be nil.
	HealthPinger healthhandler.Pinger
}

// publicPaths do not require a Bearer token.
var publicPaths = map[string]bool{
	"GET /v1/health": true,
}

// quietRoutes are excluded from audit logging and request telemetry.
var quietRoutes = map[string]bool{
	"GET /v1/health":     true,
	"GET /v1/audit-logs": true,
}

// New builds the Fiber app with the full middleware chain and all feature
// routes mounted under /v1.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "procurehub",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.Telemetry(deps.Emitter, quietRoutes))
	app.Use(middleware.BearerAuth(deps.Tokens, publicPaths))
	if deps.AuditRepo != nil {
		app.Use(middleware.Audit(deps.AuditRepo, quietRoutes))
	}

	resolver := access.NewResolver(deps.AccessStore)
	validate := validator.New()

	v1 := app.Group("/v1")
	healthhandler.NewHandler(deps.HealthPinger).Register(v1)
	organizationhandler.NewHandler(deps.OrganizationRepo, deps.MembershipRepo, validate).Register(v1)
	membershiphandler.NewHandler(deps.MembershipRepo, validate).Register(v1)
	projecthandler.NewHandler(deps.ProjectRepo, deps.PackageRepo, deps.MembershipRepo, resolver, validate).Register(v1)
	workpackagehandler.NewHandler(deps.PackageRepo, resolver, validate).Register(v1)
	assethandler.NewHandler(deps.AssetRepo, resolver, validate).Register(v1)
	evaluationhandler.NewHandler(deps.EvaluationRepo, resolver, validate).Register(v1)
	invitehandler.NewHandler(invite.NewReconciler(deps.ProjectRepo)).Register(v1)
	if deps.AuditRepo != nil {
		audithandler.NewHandler(deps.AuditRepo, deps.MembershipRepo).Register(v1)
	}

	return app
}

// errorHandler renders every handler error as a JSON error envelope. Unknown
// errors read as 500 without leaking detail.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}
