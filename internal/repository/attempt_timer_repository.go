package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// AttemptTimerRepository handles per-module time-box data access.
type AttemptTimerRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptTimerRepository creates a new AttemptTimerRepository.
func NewAttemptTimerRepository(pool *pgxpool.Pool) *AttemptTimerRepository {
	return &AttemptTimerRepository{pool: pool}
}

// BulkInsert creates the timer rows for a new attempt from the exam modules.
func (r *AttemptTimerRepository) BulkInsert(ctx context.Context, tx pgx.Tx, timers []model.AttemptModuleTimer) error {
	rows := make([][]any, len(timers))
	for i, t := range timers {
		rows[i] = []any{t.AttemptID, t.ModuleID, t.RemainingSeconds}
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"attempt_module_timers"},
		[]string{"attempt_id", "module_id", "remaining_seconds"},
		pgx.CopyFromRows(rows))
	return err
}

// ApplyElapsed decrements the module's remaining seconds by a non-negative
// delta, clamped at zero, in a single statement: sets started_at on first
// use, stamps ended_at once the clock hits zero and never overwrites it.
// Returns pgx.ErrNoRows if the timer row does not exist.
func (r *AttemptTimerRepository) ApplyElapsed(ctx context.Context, attemptID, moduleID uuid.UUID, elapsedSeconds int) (int, error) {
	var remaining int
	err := r.pool.QueryRow(ctx,
		`UPDATE attempt_module_timers
		 SET started_at = COALESCE(started_at, NOW()),
		     ended_at = CASE WHEN GREATEST(0, remaining_seconds - $3) = 0
		                     THEN COALESCE(ended_at, NOW())
		                     ELSE ended_at END,
		     remaining_seconds = GREATEST(0, remaining_seconds - $3)
		 WHERE attempt_id = $1 AND module_id = $2
		 RETURNING remaining_seconds`,
		attemptID, moduleID, elapsedSeconds,
	).Scan(&remaining)
	return remaining, err
}

// ListByAttempt retrieves all timers of an attempt in module order.
func (r *AttemptTimerRepository) ListByAttempt(ctx context.Context, db Querier, attemptID uuid.UUID) ([]model.AttemptModuleTimer, error) {
	rows, err := db.Query(ctx,
		`SELECT t.attempt_id, t.module_id, t.remaining_seconds, t.started_at, t.ended_at
		 FROM attempt_module_timers t
		 JOIN exam_modules m ON m.id = t.module_id
		 WHERE t.attempt_id = $1
		 ORDER BY m.position ASC`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timers []model.AttemptModuleTimer
	for rows.Next() {
		var t model.AttemptModuleTimer
		if err := rows.Scan(&t.AttemptID, &t.ModuleID, &t.RemainingSeconds, &t.StartedAt, &t.EndedAt); err != nil {
			return nil, err
		}
		timers = append(timers, t)
	}
	return timers, rows.Err()
}
