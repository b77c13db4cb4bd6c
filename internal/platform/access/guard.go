package access

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"procurehub/internal/membership/domain"
	"procurehub/internal/server/middleware"
)

// OrgMembershipGetter returns a user's membership in an org, or nil when the
// user is not a member. Used by the org-scoped guards to resolve caller role.
type OrgMembershipGetter interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
}

// identity pulls user and org ids injected by the auth middleware.
func identity(ctx context.Context) (userID, orgID string, err error) {
	orgID, okOrg := middleware.GetOrgID(ctx)
	userID, okUser := middleware.GetUserID(ctx)
	if !okOrg || orgID == "" || !okUser || userID == "" {
		return "", "", fiber.NewError(fiber.StatusUnauthorized, "user and organization context required")
	}
	return userID, orgID, nil
}

// RequireOrgMember ensures the caller is authenticated and is a member of the
// context org (any role). Returns (orgID, userID, nil) on success.
func RequireOrgMember(ctx context.Context, getter OrgMembershipGetter) (orgID, userID string, err error) {
	userID, orgID, err = identity(ctx)
	if err != nil {
		return "", "", err
	}
	m, err := getter.GetMembershipByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "failed to resolve membership")
	}
	if m == nil {
		return "", "", fiber.NewError(fiber.StatusForbidden, "not a member of this organization")
	}
	return orgID, userID, nil
}

// RequireOrgAdmin ensures the caller is authenticated and has role owner or
// admin in the context org. Returns (orgID, userID, nil) on success.
func RequireOrgAdmin(ctx context.Context, getter OrgMembershipGetter) (orgID, userID string, err error) {
	userID, orgID, err = identity(ctx)
	if err != nil {
		return "", "", err
	}
	m, err := getter.GetMembershipByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "failed to resolve membership")
	}
	if m == nil {
		return "", "", fiber.NewError(fiber.StatusForbidden, "not a member of this organization")
	}
	if m.Role != domain.RoleOwner && m.Role != domain.RoleAdmin {
		return "", "", fiber.NewError(fiber.StatusForbidden, "organization admin or owner required")
	}
	return orgID, userID, nil
}

// RequireProjectAccess resolves the caller's project access and hides denied
// projects behind 404 so existence never leaks. Returns the caller's userID
// and the resolution on success.
func RequireProjectAccess(ctx context.Context, r *Resolver, projectID string) (string, Result, error) {
	userID, orgID, err := identity(ctx)
	if err != nil {
		return "", Result{}, err
	}
	res, err := r.ResolveProject(ctx, userID, projectID, orgID)
	if err != nil {
		return "", Result{}, fiber.NewError(fiber.StatusInternalServerError, "failed to resolve access")
	}
	if res.Level == LevelNone {
		return "", Result{}, fiber.ErrNotFound
	}
	return userID, res, nil
}

// RequireProjectManage is RequireProjectAccess plus the full-access gate used
// for rename/archive/invite/remove-member operations.
func RequireProjectManage(ctx context.Context, r *Resolver, projectID string) (string, Result, error) {
	userID, res, err := RequireProjectAccess(ctx, r, projectID)
	if err != nil {
		return "", Result{}, err
	}
	if !CanManage(res.Level) {
		return "", Result{}, fiber.NewError(fiber.StatusForbidden, "full access required")
	}
	return userID, res, nil
}

// RequirePackageAccess resolves the caller's package access; denied packages
// read as 404.
func RequirePackageAccess(ctx context.Context, r *Resolver, packageID string) (string, Result, error) {
	userID, orgID, err := identity(ctx)
	if err != nil {
		return "", Result{}, err
	}
	res, err := r.ResolvePackage(ctx, userID, packageID, orgID)
	if err != nil {
		return "", Result{}, fiber.NewError(fiber.StatusInternalServerError, "failed to resolve access")
	}
	if res.Level == LevelNone {
		return "", Result{}, fiber.ErrNotFound
	}
	return userID, res, nil
}

// RequirePackageManage gates package management operations on full access.
func RequirePackageManage(ctx context.Context, r *Resolver, packageID string) (string, Result, error) {
	userID, res, err := RequirePackageAccess(ctx, r, packageID)
	if err != nil {
		return "", Result{}, err
	}
	if !CanManage(res.Level) {
		return "", Result{}, fiber.NewError(fiber.StatusForbidden, "full access required")
	}
	return userID, res, nil
}

// RequireTechnicalView gates technical evaluation reads on a package. The
// caller can see the package, so insufficient capability is 403, not 404.
func RequireTechnicalView(ctx context.Context, r *Resolver, packageID string) (string, Result, error) {
	userID, res, err := RequirePackageAccess(ctx, r, packageID)
	if err != nil {
		return "", Result{}, err
	}
	if !CanViewTechnical(res.Level) {
		return "", Result{}, fiber.NewError(fiber.StatusForbidden, "technical access required")
	}
	return userID, res, nil
}

// RequireCommercialView gates commercial evaluation reads on a package.
func RequireCommercialView(ctx context.Context, r *Resolver, packageID string) (string, Result, error) {
	userID, res, err := RequirePackageAccess(ctx, r, packageID)
	if err != nil {
		return "", Result{}, err
	}
	if !CanViewCommercial(res.Level) {
		return "", Result{}, fiber.NewError(fiber.StatusForbidden, "commercial access required")
	}
	return userID, res, nil
}
