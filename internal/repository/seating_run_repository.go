package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-seating/internal/models"
)

const (
	defaultRunListLimit = 20
	maxRunListLimit     = 200
)

// SeatingRunRepository persists seating run audit rows.
type SeatingRunRepository struct {
	db *sqlx.DB
}

// NewSeatingRunRepository constructs the repository.
func NewSeatingRunRepository(db *sqlx.DB) *SeatingRunRepository {
	return &SeatingRunRepository{db: db}
}

// Create inserts a run row with generated defaults.
func (r *SeatingRunRepository) Create(ctx context.Context, run *models.SeatingRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Outcome == "" {
		run.Outcome = models.RunOutcomeSuccess
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO seating_runs (id, plan_key, roster_size, proctor_pool_size, rooms, rows_per_room, columns_per_room, seats_filled, outcome, error_code, created_by, created_at)
VALUES (:id, :plan_key, :roster_size, :proctor_pool_size, :rooms, :rows_per_room, :columns_per_room, :seats_filled, :outcome, :error_code, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("create seating run: %w", err)
	}
	return nil
}

// ListRecent returns the newest runs first.
func (r *SeatingRunRepository) ListRecent(ctx context.Context, limit int) ([]models.SeatingRun, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	if limit > maxRunListLimit {
		limit = maxRunListLimit
	}
	const query = `SELECT id, plan_key, roster_size, proctor_pool_size, rooms, rows_per_room, columns_per_room, seats_filled, outcome, error_code, created_by, created_at
FROM seating_runs ORDER BY created_at DESC LIMIT $1`
	runs := make([]models.SeatingRun, 0)
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list seating runs: %w", err)
	}
	return runs, nil
}
