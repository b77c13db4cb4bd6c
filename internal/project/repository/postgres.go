package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"procurehub/internal/project/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a project repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const projectColumns = `id, org_id, creator_user_id, name, status, created_at`

// GetProjectByID returns the project for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id).
		Scan(&p.ID, &p.OrgID, &p.CreatorUserID, &p.Name, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListProjectsByOrg returns the org's projects, oldest first.
func (r *PostgresRepository) ListProjectsByOrg(ctx context.Context, orgID string) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE org_id = $1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.OrgID, &p.CreatorUserID, &p.Name, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CreateProject persists the project. The project must have ID set.
func (r *PostgresRepository) CreateProject(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, org_id, creator_user_id, name, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.OrgID, p.CreatorUserID, p.Name, p.Status, p.CreatedAt)
	return err
}

// UpdateProject updates name and status. OrgID and CreatorUserID are
// immutable and deliberately not part of the statement.
func (r *PostgresRepository) UpdateProject(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = $2, status = $3 WHERE id = $1`,
		p.ID, p.Name, p.Status)
	return err
}

const memberColumns = `id, project_id, COALESCE(user_id, ''), COALESCE(invited_email, ''), role, state, created_at`

func scanMember(row *sql.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.InvitedEmail, &m.Role, &m.State, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetMemberByProjectAndUser returns the active membership for the given user, or nil if not found.
func (r *PostgresRepository) GetMemberByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Member, error) {
	return scanMember(r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM project_memberships WHERE project_id = $1 AND user_id = $2`,
		projectID, userID))
}

// GetMemberByProjectAndEmail returns the pending membership for the given email, or nil if not found.
func (r *PostgresRepository) GetMemberByProjectAndEmail(ctx context.Context, projectID, email string) (*domain.Member, error) {
	return scanMember(r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM project_memberships WHERE project_id = $1 AND invited_email = $2`,
		projectID, strings.ToLower(email)))
}

// ListMembersByProject returns all memberships of the project, invited rows included.
func (r *PostgresRepository) ListMembersByProject(ctx context.Context, projectID string) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM project_memberships WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

// AddMember persists the membership row. user_id is stored NULL for invited rows.
func (r *PostgresRepository) AddMember(ctx context.Context, m *domain.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_memberships (id, project_id, user_id, invited_email, role, state, created_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)`,
		m.ID, m.ProjectID, m.UserID, m.InvitedEmail, m.Role, m.State, m.CreatedAt)
	return err
}

// RemoveMember deletes the membership row. Deleting a missing row is not an error.
func (r *PostgresRepository) RemoveMember(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_memberships WHERE id = $1`, id)
	return err
}

// ListInvitedByEmail returns pending memberships for the email across all projects.
func (r *PostgresRepository) ListInvitedByEmail(ctx context.Context, email string) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM project_memberships
		 WHERE state = 'invited' AND invited_email = $1`, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

// LinkInvited promotes an invited membership to active for userID, clearing
// the email key. A no-op when the row was already linked.
func (r *PostgresRepository) LinkInvited(ctx context.Context, id, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE project_memberships
		 SET user_id = $2, invited_email = NULL, state = 'active'
		 WHERE id = $1 AND state = 'invited'`, id, userID)
	return err
}

func collectMembers(rows *sql.Rows) ([]*domain.Member, error) {
	var out []*domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.InvitedEmail, &m.Role, &m.State, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
