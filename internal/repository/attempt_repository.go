package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// AttemptOverview combines an attempt with candidate data and, once scored,
// the attempt total. Used by staff listings.
type AttemptOverview struct {
	AttemptID     uuid.UUID           `json:"attempt_id"`
	CandidateName string              `json:"candidate_name"`
	TicketCode    string              `json:"ticket_code"`
	Status        model.AttemptStatus `json:"status"`
	StartedAt     time.Time           `json:"started_at"`
	SubmittedAt   *time.Time          `json:"submitted_at"`
	RawScore      *int                `json:"raw_score"`
	MaxScore      *int                `json:"max_score"`
}

// AttemptRepository handles attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, candidate_id, exam_version_id, ticket_id, status, started_at, submitted_at`

// GetByID retrieves an attempt by its UUID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id))
}

// GetByTicketID retrieves the attempt bound to a ticket, if any.
func (r *AttemptRepository) GetByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Attempt, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE ticket_id = $1`, ticketID))
}

// GetForUpdate re-reads an attempt inside a transaction with a row lock.
// Every state transition starts here: the lock serializes concurrent
// transitions on the same attempt.
func (r *AttemptRepository) GetForUpdate(ctx context.Context, db Querier, id uuid.UUID) (*model.Attempt, error) {
	return r.scanOne(db.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1 FOR UPDATE`, id))
}

// Create inserts a new attempt in IN_PROGRESS state. The caller assigns the
// UUID up front so session, item and timer rows can reference it in the same
// transaction. The unique constraint on ticket_id makes a concurrent
// double-start fail loudly instead of silently.
func (r *AttemptRepository) Create(ctx context.Context, db Querier, a *model.Attempt) error {
	return db.QueryRow(ctx,
		`INSERT INTO attempts (id, candidate_id, exam_version_id, ticket_id, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING started_at`,
		a.ID, a.CandidateID, a.ExamVersionID, a.TicketID, model.AttemptStatusInProgress,
	).Scan(&a.StartedAt)
}

// UpdateStatus transitions an attempt's status. The WHERE clause re-checks the
// expected current status so a raced transition updates zero rows; callers
// treat that as an invalid-state failure.
func (r *AttemptRepository) UpdateStatus(ctx context.Context, db Querier, id uuid.UUID, from, to model.AttemptStatus) (bool, error) {
	tag, err := db.Exec(ctx,
		`UPDATE attempts SET status = $3 WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkSubmitted flips IN_PROGRESS to SUBMITTED and stamps submitted_at.
func (r *AttemptRepository) MarkSubmitted(ctx context.Context, db Querier, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := db.Exec(ctx,
		`UPDATE attempts SET status = $2, submitted_at = $3 WHERE id = $1 AND status = $4`,
		id, model.AttemptStatusSubmitted, at, model.AttemptStatusInProgress)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListByExamVersion retrieves attempt overviews for one exam version.
func (r *AttemptRepository) ListByExamVersion(ctx context.Context, examVersionID uuid.UUID, page, perPage int) ([]AttemptOverview, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attempts WHERE exam_version_id = $1`, examVersionID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, c.full_name, t.code, a.status, a.started_at, a.submitted_at,
		        s.raw_score, s.max_score
		 FROM attempts a
		 JOIN candidates c ON a.candidate_id = c.id
		 JOIN tickets t ON a.ticket_id = t.id
		 LEFT JOIN attempt_scores s ON s.attempt_id = a.id
		 WHERE a.exam_version_id = $1
		 ORDER BY a.started_at DESC
		 LIMIT $2 OFFSET $3`,
		examVersionID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var overviews []AttemptOverview
	for rows.Next() {
		var o AttemptOverview
		if err := rows.Scan(&o.AttemptID, &o.CandidateName, &o.TicketCode, &o.Status,
			&o.StartedAt, &o.SubmittedAt, &o.RawScore, &o.MaxScore); err != nil {
			return nil, 0, err
		}
		overviews = append(overviews, o)
	}
	return overviews, total, rows.Err()
}

func (r *AttemptRepository) scanOne(row interface{ Scan(dest ...any) error }) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := row.Scan(&a.ID, &a.CandidateID, &a.ExamVersionID, &a.TicketID,
		&a.Status, &a.StartedAt, &a.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}
