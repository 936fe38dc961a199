package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// CandidateRepository handles candidate data access.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// GetOrCreate finds a candidate by email or creates one. Ticket issuance for
// a returning candidate reuses their record: on an email conflict the
// RETURNING clause yields the existing row's id, not the one offered here.
func (r *CandidateRepository) GetOrCreate(ctx context.Context, c *model.Candidate) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO candidates (id, full_name, email)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
		 RETURNING id, created_at`,
		uuid.New(), c.FullName, c.Email,
	).Scan(&c.ID, &c.CreatedAt)
}
