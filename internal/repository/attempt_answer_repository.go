package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// AttemptAnswerRepository handles answer data access.
type AttemptAnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptAnswerRepository creates a new AttemptAnswerRepository.
func NewAttemptAnswerRepository(pool *pgxpool.Pool) *AttemptAnswerRepository {
	return &AttemptAnswerRepository{pool: pool}
}

// Upsert records the current selection for an item, last write wins.
// answered_at is stamped only for a non-null selection and cleared when the
// answer is unset, all in one statement so the operation stays atomic.
func (r *AttemptAnswerRepository) Upsert(ctx context.Context, itemID uuid.UUID, optionID *uuid.UUID) (*model.AttemptAnswer, error) {
	a := &model.AttemptAnswer{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attempt_answers (attempt_item_id, selected_option_id, answered_at)
		 VALUES ($1, $2, CASE WHEN $2::uuid IS NULL THEN NULL ELSE NOW() END)
		 ON CONFLICT (attempt_item_id) DO UPDATE
		 SET selected_option_id = EXCLUDED.selected_option_id,
		     answered_at = EXCLUDED.answered_at
		 RETURNING attempt_item_id, selected_option_id, answered_at`,
		itemID, optionID,
	).Scan(&a.AttemptItemID, &a.SelectedOptionID, &a.AnsweredAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByAttempt retrieves the answers of all items of an attempt, keyed by
// attempt item ID. Items without an answer row are simply absent.
func (r *AttemptAnswerRepository) ListByAttempt(ctx context.Context, db Querier, attemptID uuid.UUID) (map[uuid.UUID]model.AttemptAnswer, error) {
	rows, err := db.Query(ctx,
		`SELECT aa.attempt_item_id, aa.selected_option_id, aa.answered_at
		 FROM attempt_answers aa
		 JOIN attempt_items ai ON ai.id = aa.attempt_item_id
		 WHERE ai.attempt_id = $1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[uuid.UUID]model.AttemptAnswer)
	for rows.Next() {
		var a model.AttemptAnswer
		if err := rows.Scan(&a.AttemptItemID, &a.SelectedOptionID, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers[a.AttemptItemID] = a
	}
	return answers, rows.Err()
}
