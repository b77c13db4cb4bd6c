package domain

import (
	"errors"
	"time"
)

// Package is a procurement unit within a project. It inherits organization
// scope transitively through its project.
type Package struct {
	ID        string
	ProjectID string
	Name      string
	Status    Status
	CreatedAt time.Time
}

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Validate validates the package for persistence.
func (p *Package) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.ProjectID == "" {
		return errors.New("project id is required")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	return nil
}

// MemberRole is a package membership role. A user may hold roles in several
// packages of the same project.
type MemberRole string

const (
	MemberRoleLead           MemberRole = "package_lead"
	MemberRoleCommercialTeam MemberRole = "commercial_team"
	MemberRoleTechnicalTeam  MemberRole = "technical_team"
)

// ValidMemberRole reports whether r is one of the closed package role set.
func ValidMemberRole(r MemberRole) bool {
	switch r {
	case MemberRoleLead, MemberRoleCommercialTeam, MemberRoleTechnicalTeam:
		return true
	}
	return false
}

// Member is a package membership row; (PackageID, UserID) is unique.
type Member struct {
	ID        string
	PackageID string
	UserID    string
	Role      MemberRole
	CreatedAt time.Time
}
