package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// DashboardRepository handles staff dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalCandidates, totalTickets, totalExamVersions, totalAttempts int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM candidates),
			(SELECT COUNT(*) FROM tickets),
			(SELECT COUNT(*) FROM exam_versions),
			(SELECT COUNT(*) FROM attempts)`,
	).Scan(&totalCandidates, &totalTickets, &totalExamVersions, &totalAttempts)
	return
}

// GetAttemptStatusCounts retrieves the distribution of attempts by status.
func (r *DashboardRepository) GetAttemptStatusCounts(ctx context.Context) (map[model.AttemptStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM attempts GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.AttemptStatus]int)
	for rows.Next() {
		var status model.AttemptStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// RecentScore is one row of the recent-scores dashboard widget.
type RecentScore struct {
	AttemptID     uuid.UUID `json:"attempt_id"`
	CandidateName string    `json:"candidate_name"`
	ExamTitle     string    `json:"exam_title"`
	RawScore      int       `json:"raw_score"`
	MaxScore      int       `json:"max_score"`
	ScoredAt      time.Time `json:"scored_at"`
}

// GetRecentScores retrieves the latest N scored attempts.
func (r *DashboardRepository) GetRecentScores(ctx context.Context, limit int) ([]RecentScore, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.attempt_id, c.full_name, v.title, s.raw_score, s.max_score, s.scored_at
		 FROM attempt_scores s
		 JOIN attempts a ON a.id = s.attempt_id
		 JOIN candidates c ON c.id = a.candidate_id
		 JOIN exam_versions v ON v.id = a.exam_version_id
		 ORDER BY s.scored_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []RecentScore
	for rows.Next() {
		var s RecentScore
		if err := rows.Scan(&s.AttemptID, &s.CandidateName, &s.ExamTitle, &s.RawScore, &s.MaxScore, &s.ScoredAt); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
