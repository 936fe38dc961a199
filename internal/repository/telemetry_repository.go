package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// TelemetryRepository handles the append-only event log and the derived
// per-item metric rows.
type TelemetryRepository struct {
	pool *pgxpool.Pool
}

// NewTelemetryRepository creates a new TelemetryRepository.
func NewTelemetryRepository(pool *pgxpool.Pool) *TelemetryRepository {
	return &TelemetryRepository{pool: pool}
}

// InsertEvent appends one event. server_time is assigned by the database so
// ordering does not depend on client clocks.
func (r *TelemetryRepository) InsertEvent(ctx context.Context, e *model.AttemptItemEvent) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempt_item_events (attempt_id, attempt_item_id, event_type, client_time, metadata)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, server_time`,
		e.AttemptID, e.AttemptItemID, e.EventType, e.ClientTime, e.Metadata,
	).Scan(&e.ID, &e.ServerTime)
}

// ListItemEvents retrieves the full event log for one item ordered by
// server time, id as tiebreaker so replays are deterministic.
func (r *TelemetryRepository) ListItemEvents(ctx context.Context, attemptItemID uuid.UUID) ([]model.AttemptItemEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, attempt_item_id, event_type, server_time, client_time, metadata
		 FROM attempt_item_events
		 WHERE attempt_item_id = $1
		 ORDER BY server_time ASC, id ASC`, attemptItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.AttemptItemEvent
	for rows.Next() {
		var e model.AttemptItemEvent
		if err := rows.Scan(&e.ID, &e.AttemptID, &e.AttemptItemID, &e.EventType,
			&e.ServerTime, &e.ClientTime, &e.Metadata); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// BulkUpsertMetrics writes a batch of recomputed metric rows with UNNEST.
// Last write wins; the rows are derived data and rebuildable.
func (r *TelemetryRepository) BulkUpsertMetrics(ctx context.Context, metrics []model.AttemptItemMetric) error {
	n := len(metrics)
	itemIDs := make([]uuid.UUID, 0, n)
	observed := make([]int, 0, n)
	active := make([]int, 0, n)
	views := make([]int, 0, n)
	changes := make([]int, 0, n)

	for _, m := range metrics {
		itemIDs = append(itemIDs, m.AttemptItemID)
		observed = append(observed, m.ObservedSeconds)
		active = append(active, m.ActiveSeconds)
		views = append(views, m.ViewCount)
		changes = append(changes, m.AnswerChangeCount)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO attempt_item_metrics
		     (attempt_item_id, observed_seconds, active_seconds, view_count, answer_change_count, updated_at)
		 SELECT u.attempt_item_id, u.observed_seconds, u.active_seconds, u.view_count, u.answer_change_count, NOW()
		 FROM UNNEST($1::uuid[], $2::int[], $3::int[], $4::int[], $5::int[])
		     AS u (attempt_item_id, observed_seconds, active_seconds, view_count, answer_change_count)
		 ON CONFLICT (attempt_item_id) DO UPDATE
		 SET observed_seconds = EXCLUDED.observed_seconds,
		     active_seconds = EXCLUDED.active_seconds,
		     view_count = EXCLUDED.view_count,
		     answer_change_count = EXCLUDED.answer_change_count,
		     updated_at = NOW()`,
		itemIDs, observed, active, views, changes)
	return err
}

// UpsertMetric writes a single metric row. Fallback path for the worker.
func (r *TelemetryRepository) UpsertMetric(ctx context.Context, m *model.AttemptItemMetric) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attempt_item_metrics
		     (attempt_item_id, observed_seconds, active_seconds, view_count, answer_change_count, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (attempt_item_id) DO UPDATE
		 SET observed_seconds = EXCLUDED.observed_seconds,
		     active_seconds = EXCLUDED.active_seconds,
		     view_count = EXCLUDED.view_count,
		     answer_change_count = EXCLUDED.answer_change_count,
		     updated_at = NOW()`,
		m.AttemptItemID, m.ObservedSeconds, m.ActiveSeconds, m.ViewCount, m.AnswerChangeCount)
	return err
}
