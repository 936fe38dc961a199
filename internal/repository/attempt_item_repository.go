package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// AttemptItemRepository handles attempt item data access.
type AttemptItemRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptItemRepository creates a new AttemptItemRepository.
func NewAttemptItemRepository(pool *pgxpool.Pool) *AttemptItemRepository {
	return &AttemptItemRepository{pool: pool}
}

// BulkInsert denormalizes exam questions into attempt items using COPY.
// Item IDs must be pre-assigned by the caller.
func (r *AttemptItemRepository) BulkInsert(ctx context.Context, tx pgx.Tx, items []model.AttemptItem) error {
	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = []any{it.ID, it.AttemptID, it.ModuleID, it.QuestionID, it.Position, it.Points}
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"attempt_items"},
		[]string{"id", "attempt_id", "module_id", "question_id", "position", "points"},
		pgx.CopyFromRows(rows))
	return err
}

// GetByID retrieves a single attempt item.
func (r *AttemptItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AttemptItem, error) {
	it := &model.AttemptItem{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, attempt_id, module_id, question_id, position, points
		 FROM attempt_items WHERE id = $1`, id,
	).Scan(&it.ID, &it.AttemptID, &it.ModuleID, &it.QuestionID, &it.Position, &it.Points)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ListByAttempt retrieves all items of an attempt in exam order.
func (r *AttemptItemRepository) ListByAttempt(ctx context.Context, db Querier, attemptID uuid.UUID) ([]model.AttemptItem, error) {
	rows, err := db.Query(ctx,
		`SELECT id, attempt_id, module_id, question_id, position, points
		 FROM attempt_items WHERE attempt_id = $1
		 ORDER BY position ASC`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.AttemptItem
	for rows.Next() {
		var it model.AttemptItem
		if err := rows.Scan(&it.ID, &it.AttemptID, &it.ModuleID, &it.QuestionID, &it.Position, &it.Points); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// OptionBelongsToQuestion reports whether the option is one of the question's
// choices. Guards the answer path against cross-question option IDs.
func (r *AttemptItemRepository) OptionBelongsToQuestion(ctx context.Context, optionID, questionID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM question_options WHERE id = $1 AND question_id = $2)`,
		optionID, questionID,
	).Scan(&ok)
	return ok, err
}
