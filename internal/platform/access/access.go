// Package access computes effective permission levels for projects and
// packages by combining organization role, project membership, package
// membership, and project-creator status under a fixed precedence policy.
package access

// OrgRole is a user's role inside an organization. The zero value means
// the user holds no membership in the organization.
type OrgRole string

const (
	OrgRoleNone   OrgRole = ""
	OrgRoleOwner  OrgRole = "owner"
	OrgRoleAdmin  OrgRole = "admin"
	OrgRoleMember OrgRole = "member"
)

// ProjectRole is a user's direct membership role on a project. The zero
// value means no direct project membership.
type ProjectRole string

const (
	ProjectRoleNone           ProjectRole = ""
	ProjectRoleLead           ProjectRole = "project_lead"
	ProjectRoleCommercialLead ProjectRole = "commercial_lead"
	ProjectRoleTechnicalLead  ProjectRole = "technical_lead"
)

// PackageRole is a user's membership role on a single package. The zero
// value means no package membership.
type PackageRole string

const (
	PackageRoleNone           PackageRole = ""
	PackageRoleLead           PackageRole = "package_lead"
	PackageRoleCommercialTeam PackageRole = "commercial_team"
	PackageRoleTechnicalTeam  PackageRole = "technical_team"
)

// Level is the effective access level for a user on a project or package.
type Level string

const (
	LevelFull       Level = "full"
	LevelCommercial Level = "commercial"
	LevelTechnical  Level = "technical"
	LevelNone       Level = "none"
)

// Result is the outcome of resolving a user's access to a project or package.
// Role fields are zero-valued when the corresponding signal is absent.
type Result struct {
	OrgRole     OrgRole     `json:"orgRole"`
	ProjectRole ProjectRole `json:"projectRole"`
	PackageRole PackageRole `json:"packageRole"`
	IsCreator   bool        `json:"isCreator"`
	Level       Level       `json:"access"`
	// HasProjectLevelAccess is true only when access was granted through
	// org-owner status, creator status, or a direct project membership.
	// Package-only membership never sets it. Meaningful for project
	// resolutions; always false for package resolutions.
	HasProjectLevelAccess bool `json:"hasProjectLevelAccess"`
	// ProjectID is the parent project id on package resolutions, for caller
	// convenience. Empty on project resolutions and on denied results.
	ProjectID string `json:"projectId,omitempty"`
}

// packageRolePriority defines the total order used to reduce multiple package
// roles to a single best role. Higher wins.
func packageRolePriority(r PackageRole) int {
	switch r {
	case PackageRoleLead:
		return 3
	case PackageRoleCommercialTeam:
		return 2
	case PackageRoleTechnicalTeam:
		return 1
	default:
		return 0
	}
}

// BestPackageRole reduces the package roles a user holds across a project's
// packages to the single highest-priority role. The result is independent of
// input order; package_lead short-circuits.
func BestPackageRole(roles []PackageRole) PackageRole {
	best := PackageRoleNone
	for _, r := range roles {
		if r == PackageRoleLead {
			return PackageRoleLead
		}
		if packageRolePriority(r) > packageRolePriority(best) {
			best = r
		}
	}
	return best
}

// CanViewTechnical reports whether the level grants visibility of technical
// evaluation data.
func CanViewTechnical(l Level) bool {
	return l == LevelFull || l == LevelTechnical
}

// CanViewCommercial reports whether the level grants visibility of commercial
// evaluation data.
func CanViewCommercial(l Level) bool {
	return l == LevelFull || l == LevelCommercial
}

// CanManage reports whether the level grants management operations on the
// resource (create, rename, archive, invite, remove members).
func CanManage(l Level) bool {
	return l == LevelFull
}
