package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"procurehub/internal/evaluation/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an evaluation repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const roundColumns = `id, package_id, kind, round_number, status, scores, created_at, closed_at`

func scanRound(scan func(dest ...any) error) (*domain.Round, error) {
	var (
		r      domain.Round
		scores []byte
		closed sql.NullTime
	)
	err := scan(&r.ID, &r.PackageID, &r.Kind, &r.Number, &r.Status, &scores, &r.CreatedAt, &closed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &r.Scores); err != nil {
			return nil, err
		}
	}
	if closed.Valid {
		t := closed.Time
		r.ClosedAt = &t
	}
	return &r, nil
}

// GetRoundByID returns the round for id, or nil if not found.
func (r *PostgresRepository) GetRoundByID(ctx context.Context, id string) (*domain.Round, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roundColumns+` FROM evaluation_rounds WHERE id = $1`, id)
	return scanRound(row.Scan)
}

// ListRoundsByPackage returns the package's rounds of the given kind, by
// round number ascending.
func (r *PostgresRepository) ListRoundsByPackage(ctx context.Context, packageID string, kind domain.Kind) ([]*domain.Round, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roundColumns+` FROM evaluation_rounds
		 WHERE package_id = $1 AND kind = $2 ORDER BY round_number`, packageID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Round
	for rows.Next() {
		round, err := scanRound(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, round)
	}
	return out, rows.Err()
}

// CreateRound persists the round with its scores blob. The round must have ID set.
func (r *PostgresRepository) CreateRound(ctx context.Context, round *domain.Round) error {
	scores, err := marshalScores(round.Scores)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO evaluation_rounds (id, package_id, kind, round_number, status, scores, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		round.ID, round.PackageID, round.Kind, round.Number, round.Status, scores, round.CreatedAt)
	return err
}

// UpdateRound updates status, scores, and closed_at.
func (r *PostgresRepository) UpdateRound(ctx context.Context, round *domain.Round) error {
	scores, err := marshalScores(round.Scores)
	if err != nil {
		return err
	}
	var closed sql.NullTime
	if round.ClosedAt != nil {
		closed = sql.NullTime{Time: *round.ClosedAt, Valid: true}
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE evaluation_rounds SET status = $2, scores = $3, closed_at = $4 WHERE id = $1`,
		round.ID, round.Status, scores, closed)
	return err
}

// NextRoundNumber returns 1 + the highest round number for the package and kind.
func (r *PostgresRepository) NextRoundNumber(ctx context.Context, packageID string, kind domain.Kind) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(round_number), 0) + 1 FROM evaluation_rounds WHERE package_id = $1 AND kind = $2`,
		packageID, kind).Scan(&n)
	return n, err
}

func marshalScores(s domain.ContractorScores) ([]byte, error) {
	if s == nil {
		return []byte(`{}`), nil
	}
	return json.Marshal(s)
}
