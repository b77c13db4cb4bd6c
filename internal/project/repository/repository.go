package repository

import (
	"context"

	"procurehub/internal/project/domain"
)

// Repository defines persistence for projects and project memberships.
type Repository interface {
	GetProjectByID(ctx context.Context, id string) (*domain.Project, error)
	ListProjectsByOrg(ctx context.Context, orgID string) ([]*domain.Project, error)
	CreateProject(ctx context.Context, p *domain.Project) error
	UpdateProject(ctx context.Context, p *domain.Project) error

	GetMemberByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Member, error)
	GetMemberByProjectAndEmail(ctx context.Context, projectID, email string) (*domain.Member, error)
	ListMembersByProject(ctx context.Context, projectID string) ([]*domain.Member, error)
	AddMember(ctx context.Context, m *domain.Member) error
	RemoveMember(ctx context.Context, id string) error

	// ListInvitedByEmail returns pending memberships for the email across
	// all projects, for invite reconciliation.
	ListInvitedByEmail(ctx context.Context, email string) ([]*domain.Member, error)
	// LinkInvited promotes an invited membership to active for userID.
	LinkInvited(ctx context.Context, id, userID string) error
}
