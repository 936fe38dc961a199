package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// TicketRepository handles ticket data access.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketColumns = `id, code, pin_hash, candidate_id, exam_version_id, status, issued_by, created_at`

// GetByCode retrieves a ticket by its code.
func (r *TicketRepository) GetByCode(ctx context.Context, code string) (*model.Ticket, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE code = $1`, code))
}

// Create inserts a new ACTIVE ticket.
func (r *TicketRepository) Create(ctx context.Context, t *model.Ticket) error {
	t.ID = uuid.New()
	return r.pool.QueryRow(ctx,
		`INSERT INTO tickets (id, code, pin_hash, candidate_id, exam_version_id, status, issued_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		t.ID, t.Code, t.PINHash, t.CandidateID, t.ExamVersionID, model.TicketStatusActive, t.IssuedBy,
	).Scan(&t.CreatedAt)
}

// MarkUsed flips an ACTIVE ticket to USED inside the submit transaction.
func (r *TicketRepository) MarkUsed(ctx context.Context, db Querier, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx,
		`UPDATE tickets SET status = $2 WHERE id = $1 AND status = $3`,
		id, model.TicketStatusUsed, model.TicketStatusActive)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListByExamVersion retrieves tickets (with candidate names) for a version.
func (r *TicketRepository) ListByExamVersion(ctx context.Context, examVersionID uuid.UUID, page, perPage int) ([]TicketOverview, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE exam_version_id = $1`, examVersionID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.code, t.status, t.created_at, c.full_name, c.email
		 FROM tickets t
		 JOIN candidates c ON c.id = t.candidate_id
		 WHERE t.exam_version_id = $1
		 ORDER BY t.created_at DESC
		 LIMIT $2 OFFSET $3`,
		examVersionID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tickets []TicketOverview
	for rows.Next() {
		var t TicketOverview
		if err := rows.Scan(&t.TicketID, &t.Code, &t.Status, &t.CreatedAt, &t.CandidateName, &t.CandidateEmail); err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	return tickets, total, rows.Err()
}

// TicketOverview is a staff-facing ticket listing row.
type TicketOverview struct {
	TicketID       uuid.UUID          `json:"ticket_id"`
	Code           string             `json:"code"`
	Status         model.TicketStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	CandidateName  string             `json:"candidate_name"`
	CandidateEmail string             `json:"candidate_email"`
}

func (r *TicketRepository) scanOne(row interface{ Scan(dest ...any) error }) (*model.Ticket, error) {
	t := &model.Ticket{}
	err := row.Scan(&t.ID, &t.Code, &t.PINHash, &t.CandidateID, &t.ExamVersionID,
		&t.Status, &t.IssuedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}
