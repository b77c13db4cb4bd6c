package domain

import (
	"errors"
	"strings"
	"time"
)

// Project is a unit of work owned by one organization. OrgID and
// CreatorUserID are recorded at creation and never change; every access
// check is evaluated against them.
type Project struct {
	ID            string
	OrgID         string
	CreatorUserID string
	Name          string
	Status        Status
	CreatedAt     time.Time
}

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Validate validates the project for persistence.
func (p *Project) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.OrgID == "" {
		return errors.New("org id is required")
	}
	if p.CreatorUserID == "" {
		return errors.New("creator is required")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	return nil
}

// MemberRole is a direct project membership role.
type MemberRole string

const (
	MemberRoleLead           MemberRole = "project_lead"
	MemberRoleCommercialLead MemberRole = "commercial_lead"
	MemberRoleTechnicalLead  MemberRole = "technical_lead"
)

// ValidMemberRole reports whether r is one of the closed project role set.
func ValidMemberRole(r MemberRole) bool {
	switch r {
	case MemberRoleLead, MemberRoleCommercialLead, MemberRoleTechnicalLead:
		return true
	}
	return false
}

// MemberState distinguishes linked memberships from pending invitations.
type MemberState string

const (
	// MemberStateActive memberships are keyed by UserID and count as role
	// signals in access resolution.
	MemberStateActive MemberState = "active"
	// MemberStateInvited memberships are keyed by InvitedEmail only; they
	// carry no user id until reconciliation links them on first sign-in and
	// must never grant access.
	MemberStateInvited MemberState = "invited"
)

// Member is a project membership row. Exactly one of UserID (active) or
// InvitedEmail (invited) identifies the member; the pair (ProjectID,
// identifying key) is unique.
type Member struct {
	ID           string
	ProjectID    string
	UserID       string
	InvitedEmail string
	Role         MemberRole
	State        MemberState
	CreatedAt    time.Time
}

// NewActiveMember returns an active membership for an existing user.
func NewActiveMember(id, projectID, userID string, role MemberRole) *Member {
	return &Member{
		ID: id, ProjectID: projectID, UserID: userID,
		Role: role, State: MemberStateActive, CreatedAt: time.Now().UTC(),
	}
}

// NewInvitedMember returns a pending membership keyed by email. Emails are
// stored lowercase so reconciliation matching is case-insensitive.
func NewInvitedMember(id, projectID, email string, role MemberRole) *Member {
	return &Member{
		ID: id, ProjectID: projectID, InvitedEmail: strings.ToLower(email),
		Role: role, State: MemberStateInvited, CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the active/invited variant invariants.
func (m *Member) Validate() error {
	if !ValidMemberRole(m.Role) {
		return errors.New("invalid project role")
	}
	switch m.State {
	case MemberStateActive:
		if m.UserID == "" {
			return errors.New("active membership requires a user id")
		}
	case MemberStateInvited:
		if m.InvitedEmail == "" {
			return errors.New("invited membership requires an email")
		}
		if m.UserID != "" {
			return errors.New("invited membership must not carry a user id")
		}
	default:
		return errors.New("invalid membership state")
	}
	return nil
}
