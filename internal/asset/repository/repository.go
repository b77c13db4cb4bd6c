package repository

import (
	"context"

	"procurehub/internal/asset/domain"
)

// Repository defines persistence for package assets.
type Repository interface {
	GetAssetByID(ctx context.Context, id string) (*domain.Asset, error)
	ListAssetsByPackage(ctx context.Context, packageID string) ([]*domain.Asset, error)
	CreateAsset(ctx context.Context, a *domain.Asset) error
	DeleteAsset(ctx context.Context, id string) error
}
