package domain

import "time"

// Membership links a user to an organization with a role. A user holds at
// most one membership per organization.
type Membership struct {
	ID        string
	UserID    string
	OrgID     string
	Role      Role
	CreatedAt time.Time
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ValidRole reports whether r is one of the closed org role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// IsAdmin reports whether the membership grants org administration.
func (m *Membership) IsAdmin() bool {
	return m != nil && (m.Role == RoleOwner || m.Role == RoleAdmin)
}
