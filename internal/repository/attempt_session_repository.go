package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// AttemptSessionRepository handles attempt session data access.
type AttemptSessionRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptSessionRepository creates a new AttemptSessionRepository.
func NewAttemptSessionRepository(pool *pgxpool.Pool) *AttemptSessionRepository {
	return &AttemptSessionRepository{pool: pool}
}

const sessionColumns = `id, attempt_id, device_id, status, created_by_staff_id, created_at, revoked_at`

// GetActive retrieves the single ACTIVE session for an attempt, if any.
func (r *AttemptSessionRepository) GetActive(ctx context.Context, attemptID uuid.UUID) (*model.AttemptSession, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM attempt_sessions
		 WHERE attempt_id = $1 AND status = $2`,
		attemptID, model.SessionStatusActive))
}

// Create inserts a new ACTIVE session. The partial unique index on
// (attempt_id) WHERE status = 'ACTIVE' rejects a second concurrent ACTIVE row.
func (r *AttemptSessionRepository) Create(ctx context.Context, db Querier, s *model.AttemptSession) error {
	return db.QueryRow(ctx,
		`INSERT INTO attempt_sessions (id, attempt_id, device_id, status, created_by_staff_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		s.ID, s.AttemptID, s.DeviceID, model.SessionStatusActive, s.CreatedByStaffID,
	).Scan(&s.CreatedAt)
}

// RevokeActive revokes the ACTIVE session for an attempt and returns how many
// rows changed (0 or 1 given the partial unique index).
func (r *AttemptSessionRepository) RevokeActive(ctx context.Context, db Querier, attemptID uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx,
		`UPDATE attempt_sessions SET status = $2, revoked_at = NOW()
		 WHERE attempt_id = $1 AND status = $3`,
		attemptID, model.SessionStatusRevoked, model.SessionStatusActive)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *AttemptSessionRepository) scanOne(row interface{ Scan(dest ...any) error }) (*model.AttemptSession, error) {
	s := &model.AttemptSession{}
	err := row.Scan(&s.ID, &s.AttemptID, &s.DeviceID, &s.Status,
		&s.CreatedByStaffID, &s.CreatedAt, &s.RevokedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
