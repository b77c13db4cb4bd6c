package repository

import (
	"context"
	"database/sql"
	"errors"

	"procurehub/internal/asset/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an asset repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const assetColumns = `id, package_id, name, kind, COALESCE(object_key, ''), created_at`

// GetAssetByID returns the asset for id, or nil if not found.
func (r *PostgresRepository) GetAssetByID(ctx context.Context, id string) (*domain.Asset, error) {
	var a domain.Asset
	err := r.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1`, id).
		Scan(&a.ID, &a.PackageID, &a.Name, &a.Kind, &a.ObjectKey, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// ListAssetsByPackage returns the package's assets, oldest first.
func (r *PostgresRepository) ListAssetsByPackage(ctx context.Context, packageID string) ([]*domain.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE package_id = $1 ORDER BY created_at`, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.PackageID, &a.Name, &a.Kind, &a.ObjectKey, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// CreateAsset persists the asset. The asset must have ID set.
func (r *PostgresRepository) CreateAsset(ctx context.Context, a *domain.Asset) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assets (id, package_id, name, kind, object_key, created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		a.ID, a.PackageID, a.Name, a.Kind, a.ObjectKey, a.CreatedAt)
	return err
}

// DeleteAsset deletes the asset row. Deleting a missing row is not an error.
func (r *PostgresRepository) DeleteAsset(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	return err
}
