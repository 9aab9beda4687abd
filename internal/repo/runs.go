package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Run is a stored compliance run. Report holds the run's JSON report as
// produced by the engine.
type Run struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int             `json:"user_id"`
	Template  string          `json:"template"`
	ModelName string          `json:"model_name"`
	Report    json.RawMessage `json:"report"`
	CreatedAt time.Time       `json:"created_at"`
}

type RunRepository interface {
	SaveRun(ctx context.Context, run Run) error
	// GetRun only returns runs owned by userID.
	GetRun(ctx context.Context, id uuid.UUID, userID int) (Run, error)
	ListRuns(ctx context.Context, userID int, limit int) ([]Run, error)
}

type PostgresRunRepository struct {
	db *sql.DB
}

func NewPostgresRunDB(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

func (r *PostgresRunRepository) SaveRun(ctx context.Context, run Run) error {
	query := `INSERT INTO compliance_runs (id, user_id, template, model_name, report)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, run.ID, run.UserID, run.Template, run.ModelName, []byte(run.Report))
	return err
}

func (r *PostgresRunRepository) GetRun(ctx context.Context, id uuid.UUID, userID int) (Run, error) {
	query := `SELECT id, user_id, template, model_name, report, created_at
		FROM compliance_runs WHERE id=$1 AND user_id=$2`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

func (r *PostgresRunRepository) ListRuns(ctx context.Context, userID int, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, user_id, template, model_name, report, created_at
		FROM compliance_runs WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	var report []byte
	err := s.Scan(&run.ID, &run.UserID, &run.Template, &run.ModelName, &report, &run.CreatedAt)
	if err != nil {
		return Run{}, err
	}
	run.Report = report
	return run, nil
}
