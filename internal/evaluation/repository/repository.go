package repository

import (
	"context"

	"procurehub/internal/evaluation/domain"
)

// Repository defines persistence for evaluation rounds.
type Repository interface {
	GetRoundByID(ctx context.Context, id string) (*domain.Round, error)
	ListRoundsByPackage(ctx context.Context, packageID string, kind domain.Kind) ([]*domain.Round, error)
	CreateRound(ctx context.Context, r *domain.Round) error
	UpdateRound(ctx context.Context, r *domain.Round) error
	// NextRoundNumber returns 1 + the highest round number for the package
	// and kind, starting at 1.
	NextRoundNumber(ctx context.Context, packageID string, kind domain.Kind) (int, error)
}
