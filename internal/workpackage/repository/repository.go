package repository

import (
	"context"

	"procurehub/internal/workpackage/domain"
)

// Repository defines persistence for packages and package memberships.
type Repository interface {
	GetPackageByID(ctx context.Context, id string) (*domain.Package, error)
	ListPackagesByProject(ctx context.Context, projectID string) ([]*domain.Package, error)
	CreatePackage(ctx context.Context, p *domain.Package) error
	UpdatePackage(ctx context.Context, p *domain.Package) error

	GetMemberByPackageAndUser(ctx context.Context, packageID, userID string) (*domain.Member, error)
	ListMembersByPackage(ctx context.Context, packageID string) ([]*domain.Member, error)
	AddMember(ctx context.Context, m *domain.Member) error
	RemoveMember(ctx context.Context, id string) error
}
