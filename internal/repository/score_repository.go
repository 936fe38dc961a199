package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// ScoreRepository handles score row data access. All inserts run inside the
// submit transaction; the rows are written exactly once per attempt.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// HasScores reports whether any score row exists for the attempt. This is the
// idempotency guard: a scored attempt is never re-scored.
func (r *ScoreRepository) HasScores(ctx context.Context, db Querier, attemptID uuid.UUID) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attempt_scores WHERE attempt_id = $1)`,
		attemptID,
	).Scan(&exists)
	return exists, err
}

// InsertItemScores bulk-inserts per-item results using COPY.
func (r *ScoreRepository) InsertItemScores(ctx context.Context, tx pgx.Tx, scores []model.AttemptAnswerScore) error {
	rows := make([][]any, len(scores))
	for i, s := range scores {
		rows[i] = []any{s.AttemptItemID, s.IsCorrect, s.PointsAwarded}
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"attempt_answer_scores"},
		[]string{"attempt_item_id", "is_correct", "points_awarded"},
		pgx.CopyFromRows(rows))
	return err
}

// InsertSectionScores inserts per-module aggregates.
func (r *ScoreRepository) InsertSectionScores(ctx context.Context, tx pgx.Tx, scores []model.AttemptSectionScore) error {
	for _, s := range scores {
		if _, err := tx.Exec(ctx,
			`INSERT INTO attempt_section_scores (attempt_id, module_id, raw_score, max_score)
			 VALUES ($1, $2, $3, $4)`,
			s.AttemptID, s.ModuleID, s.RawScore, s.MaxScore); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttemptScore inserts the attempt total.
func (r *ScoreRepository) InsertAttemptScore(ctx context.Context, tx pgx.Tx, s *model.AttemptScore) error {
	return tx.QueryRow(ctx,
		`INSERT INTO attempt_scores (attempt_id, raw_score, max_score)
		 VALUES ($1, $2, $3)
		 RETURNING scored_at`,
		s.AttemptID, s.RawScore, s.MaxScore,
	).Scan(&s.ScoredAt)
}

// GetAttemptScore retrieves the attempt total.
func (r *ScoreRepository) GetAttemptScore(ctx context.Context, attemptID uuid.UUID) (*model.AttemptScore, error) {
	s := &model.AttemptScore{}
	err := r.pool.QueryRow(ctx,
		`SELECT attempt_id, raw_score, max_score, scored_at
		 FROM attempt_scores WHERE attempt_id = $1`, attemptID,
	).Scan(&s.AttemptID, &s.RawScore, &s.MaxScore, &s.ScoredAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSectionScores retrieves per-module aggregates in module order.
func (r *ScoreRepository) ListSectionScores(ctx context.Context, attemptID uuid.UUID) ([]model.AttemptSectionScore, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.attempt_id, s.module_id, s.raw_score, s.max_score
		 FROM attempt_section_scores s
		 JOIN exam_modules m ON m.id = s.module_id
		 WHERE s.attempt_id = $1
		 ORDER BY m.position ASC`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []model.AttemptSectionScore
	for rows.Next() {
		var s model.AttemptSectionScore
		if err := rows.Scan(&s.AttemptID, &s.ModuleID, &s.RawScore, &s.MaxScore); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
