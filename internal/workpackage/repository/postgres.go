package repository

import (
	"context"
	"database/sql"
	"errors"

	"procurehub/internal/workpackage/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a package repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const packageColumns = `id, project_id, name, status, created_at`

// GetPackageByID returns the package for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetPackageByID(ctx context.Context, id string) (*domain.Package, error) {
	var p domain.Package
	err := r.db.QueryRowContext(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE id = $1`, id).
		Scan(&p.ID, &p.ProjectID, &p.Name, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListPackagesByProject returns the project's packages, oldest first.
func (r *PostgresRepository) ListPackagesByProject(ctx context.Context, projectID string) ([]*domain.Package, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Package
	for rows.Next() {
		var p domain.Package
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CreatePackage persists the package. The package must have ID set.
func (r *PostgresRepository) CreatePackage(ctx context.Context, p *domain.Package) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO packages (id, project_id, name, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.ProjectID, p.Name, p.Status, p.CreatedAt)
	return err
}

// UpdatePackage updates name and status; ProjectID is immutable.
func (r *PostgresRepository) UpdatePackage(ctx context.Context, p *domain.Package) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE packages SET name = $2, status = $3 WHERE id = $1`,
		p.ID, p.Name, p.Status)
	return err
}

const pkgMemberColumns = `id, package_id, user_id, role, created_at`

// GetMemberByPackageAndUser returns the user's membership in the package, or nil if not found.
func (r *PostgresRepository) GetMemberByPackageAndUser(ctx context.Context, packageID, userID string) (*domain.Member, error) {
	var m domain.Member
	err := r.db.QueryRowContext(ctx,
		`SELECT `+pkgMemberColumns+` FROM package_memberships WHERE package_id = $1 AND user_id = $2`,
		packageID, userID).
		Scan(&m.ID, &m.PackageID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListMembersByPackage returns all memberships of the package.
func (r *PostgresRepository) ListMembersByPackage(ctx context.Context, packageID string) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pkgMemberColumns+` FROM package_memberships WHERE package_id = $1 ORDER BY created_at`, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.PackageID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// AddMember persists the membership row.
func (r *PostgresRepository) AddMember(ctx context.Context, m *domain.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO package_memberships (id, package_id, user_id, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.PackageID, m.UserID, m.Role, m.CreatedAt)
	return err
}

// RemoveMember deletes the membership row. Deleting a missing row is not an error.
func (r *PostgresRepository) RemoveMember(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM package_memberships WHERE id = $1`, id)
	return err
}
