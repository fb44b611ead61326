package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gocause/internal/errors"
	"gocause/ports"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// Migrate creates the run-history table if it does not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			target TEXT NOT NULL,
			method TEXT NOT NULL,
			confidence TEXT NOT NULL,
			explanation_power DOUBLE PRECISION NOT NULL DEFAULT 0,
			result JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return errors.Wrap(err, "creating analysis_runs table")
	}
	return nil
}

// Record inserts one completed run summary
func (r *RunRepositoryImpl) Record(ctx context.Context, rec ports.RunRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, kind, target, method, confidence, explanation_power, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.Kind, rec.Target, rec.Method, rec.Confidence, rec.ExplanationPower, rec.Result, rec.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "inserting analysis run")
	}
	return nil
}

// List returns the most recent runs, newest first
func (r *RunRepositoryImpl) List(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []ports.RunRecord
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, kind, target, method, confidence, explanation_power, result, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing analysis runs")
	}
	return runs, nil
}
