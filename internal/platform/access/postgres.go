package access

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStore implements Store with single-query reads over the projects,
// packages, and membership tables.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a Store backed by the given database.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const projectAccessRowQuery = `
SELECT p.org_id, p.creator_user_id,
       COALESCE(om.role, ''), COALESCE(pm.role, '')
FROM projects p
LEFT JOIN org_memberships om ON om.org_id = $3 AND om.user_id = $2
LEFT JOIN project_memberships pm ON pm.project_id = p.id AND pm.user_id = $2
WHERE p.id = $1`

// ProjectAccessRow returns the project scope columns joined with the caller's
// role signals, or nil when the project does not exist. The org membership is
// looked up against the supplied orgID, not the project's own org, so the
// resolver's scope guard sees exactly the caller's claimed tenant.
func (s *PostgresStore) ProjectAccessRow(ctx context.Context, projectID, userID, orgID string) (*ProjectRow, error) {
	var row ProjectRow
	err := s.db.QueryRowContext(ctx, projectAccessRowQuery, projectID, userID, orgID).
		Scan(&row.OrgID, &row.CreatorUserID, &row.OrgRole, &row.ProjectRole)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

const packageAccessRowQuery = `
SELECT p.id, p.org_id, p.creator_user_id,
       COALESCE(om.role, ''), COALESCE(pm.role, ''), COALESCE(km.role, '')
FROM packages k
JOIN projects p ON p.id = k.project_id
LEFT JOIN org_memberships om ON om.org_id = $3 AND om.user_id = $2
LEFT JOIN project_memberships pm ON pm.project_id = p.id AND pm.user_id = $2
LEFT JOIN package_memberships km ON km.package_id = k.id AND km.user_id = $2
WHERE k.id = $1`

// PackageAccessRow joins package -> project and returns scope columns plus
// role signals, or nil when the package does not exist.
func (s *PostgresStore) PackageAccessRow(ctx context.Context, packageID, userID, orgID string) (*PackageRow, error) {
	var row PackageRow
	err := s.db.QueryRowContext(ctx, packageAccessRowQuery, packageID, userID, orgID).
		Scan(&row.ProjectID, &row.OrgID, &row.CreatorUserID, &row.OrgRole, &row.ProjectRole, &row.PackageRole)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

const packageRolesInProjectQuery = `
SELECT km.role
FROM package_memberships km
JOIN packages k ON k.id = km.package_id
WHERE k.project_id = $1 AND km.user_id = $2`

// PackageRolesInProject returns every package role the user holds across the
// project's packages.
func (s *PostgresStore) PackageRolesInProject(ctx context.Context, projectID, userID string) ([]PackageRole, error) {
	rows, err := s.db.QueryContext(ctx, packageRolesInProjectQuery, projectID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PackageRole
	for rows.Next() {
		var r PackageRole
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
