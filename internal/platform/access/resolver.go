package access

import "context"

// ProjectRow carries everything one logical read returns for a project
// access check: the project's scope columns plus the caller's role signals.
type ProjectRow struct {
	OrgID         string
	CreatorUserID string
	// OrgRole is the caller's membership role in the supplied organization,
	// zero-valued when the caller is not a member of it.
	OrgRole OrgRole
	// ProjectRole is the caller's direct (active, linked) project membership
	// role, zero-valued when absent.
	ProjectRole ProjectRole
}

// PackageRow is the package-query counterpart of ProjectRow. Scope columns
// come from the package's parent project.
type PackageRow struct {
	ProjectID     string
	OrgID         string
	CreatorUserID string
	OrgRole       OrgRole
	ProjectRole   ProjectRole
	PackageRole   PackageRole
}

// Store is the read-only view of membership and resource rows the resolver
// queries. Implementations return (nil, nil) when the resource does not
// exist; errors are reserved for store failures.
type Store interface {
	// ProjectAccessRow returns the project's scope columns joined with the
	// caller's org role (scoped to orgID) and direct project role.
	ProjectAccessRow(ctx context.Context, projectID, userID, orgID string) (*ProjectRow, error)
	// PackageAccessRow joins package -> project and returns scope columns
	// plus the caller's org, project, and package role signals.
	PackageAccessRow(ctx context.Context, packageID, userID, orgID string) (*PackageRow, error)
	// PackageRolesInProject returns every package role the caller holds
	// across packages of the given project, in no particular order.
	PackageRolesInProject(ctx context.Context, projectID, userID string) ([]PackageRole, error)
}

// Resolver computes effective access for projects and packages. It holds no
// state of its own; every resolution is a pure function of the store rows at
// query time. Denial is a normal return value, never an error.
type Resolver struct {
	store Store
}

// NewResolver returns a Resolver backed by the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// denied is the all-zero denial result. Shared by not-found, cross-tenant,
// and no-signal outcomes so callers cannot tell them apart.
func denied() Result {
	return Result{Level: LevelNone}
}

// ResolveProject resolves the caller's effective access to a project within
// the supplied organization scope.
//
// Precedence, first match wins: org owner, project creator, project_lead,
// commercial_lead, technical_lead, then the best package role held across
// the project's packages (package_lead, commercial_team, technical_team).
// A project outside the supplied organization resolves to the denial result
// with no role fields populated.
func (r *Resolver) ResolveProject(ctx context.Context, userID, projectID, orgID string) (Result, error) {
	row, err := r.store.ProjectAccessRow(ctx, projectID, userID, orgID)
	if err != nil {
		return denied(), err
	}
	if row == nil || row.OrgID != orgID {
		return denied(), nil
	}

	isCreator := row.CreatorUserID == userID

	roles, err := r.store.PackageRolesInProject(ctx, projectID, userID)
	if err != nil {
		return denied(), err
	}
	best := BestPackageRole(roles)

	return Result{
		OrgRole:               row.OrgRole,
		ProjectRole:           row.ProjectRole,
		PackageRole:           best,
		IsCreator:             isCreator,
		Level:                 projectLevel(row.OrgRole, isCreator, row.ProjectRole, best),
		HasProjectLevelAccess: row.OrgRole == OrgRoleOwner || isCreator || row.ProjectRole != ProjectRoleNone,
	}, nil
}

// ResolvePackage resolves the caller's effective access to a package within
// the supplied organization scope.
//
// Package membership is the more specific grant, so its precedence is
// inverted relative to ResolveProject: org owner, project creator, then the
// package roles, then the project roles. The asymmetry is deliberate.
func (r *Resolver) ResolvePackage(ctx context.Context, userID, packageID, orgID string) (Result, error) {
	row, err := r.store.PackageAccessRow(ctx, packageID, userID, orgID)
	if err != nil {
		return denied(), err
	}
	if row == nil || row.OrgID != orgID {
		return denied(), nil
	}

	isCreator := row.CreatorUserID == userID

	return Result{
		OrgRole:     row.OrgRole,
		ProjectRole: row.ProjectRole,
		PackageRole: row.PackageRole,
		IsCreator:   isCreator,
		Level:       packageLevel(row.OrgRole, isCreator, row.PackageRole, row.ProjectRole),
		ProjectID:   row.ProjectID,
	}, nil
}

// projectLevel applies the project precedence order. The switch is a total
// order: evaluation stops at the first matching rule.
func projectLevel(orgRole OrgRole, isCreator bool, projectRole ProjectRole, best PackageRole) Level {
	switch {
	case orgRole == OrgRoleOwner:
		return LevelFull
	case isCreator:
		return LevelFull
	case projectRole == ProjectRoleLead:
		return LevelFull
	case projectRole == ProjectRoleCommercialLead:
		return LevelCommercial
	case projectRole == ProjectRoleTechnicalLead:
		return LevelTechnical
	case best == PackageRoleLead:
		return LevelFull
	case best == PackageRoleCommercialTeam:
		return LevelCommercial
	case best == PackageRoleTechnicalTeam:
		return LevelTechnical
	default:
		return LevelNone
	}
}

// packageLevel applies the package precedence order (package roles before
// project roles).
func packageLevel(orgRole OrgRole, isCreator bool, packageRole PackageRole, projectRole ProjectRole) Level {
	switch {
	case orgRole == OrgRoleOwner:
		return LevelFull
	case isCreator:
		return LevelFull
	case packageRole == PackageRoleLead:
		return LevelFull
	case packageRole == PackageRoleCommercialTeam:
		return LevelCommercial
	case packageRole == PackageRoleTechnicalTeam:
		return LevelTechnical
	case projectRole == ProjectRoleLead:
		return LevelFull
	case projectRole == ProjectRoleCommercialLead:
		return LevelCommercial
	case projectRole == ProjectRoleTechnicalLead:
		return LevelTechnical
	default:
		return LevelNone
	}
}
