package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

// Ticket codes skip ambiguous characters (0/O, 1/I/L) because candidates
// type them by hand.
const ticketCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	ticketCodeLength = 8
	ticketPINLength  = 6
)

// TicketService issues and manages exam tickets. The PIN leaves the server
// exactly once, in the issuance response; only the bcrypt hash is stored.
type TicketService struct {
	db            *pgxpool.Pool
	ticketRepo    *repository.TicketRepository
	candidateRepo *repository.CandidateRepository
	versionRepo   *repository.ExamVersionRepository
	authService   *AuthService
	auditService  *AuditService
}

// NewTicketService creates a new TicketService.
func NewTicketService(
	db *pgxpool.Pool,
	ticketRepo *repository.TicketRepository,
	candidateRepo *repository.CandidateRepository,
	versionRepo *repository.ExamVersionRepository,
	authService *AuthService,
	auditService *AuditService,
) *TicketService {
	return &TicketService{
		db:            db,
		ticketRepo:    ticketRepo,
		candidateRepo: candidateRepo,
		versionRepo:   versionRepo,
		authService:   authService,
		auditService:  auditService,
	}
}

// Issue creates one ticket per candidate for a PUBLISHED exam version and
// returns the plaintext codes and PINs for distribution.
func (s *TicketService) Issue(ctx context.Context, req *model.IssueTicketsRequest, staffID int) ([]model.IssuedTicket, error) {
	version, err := s.versionRepo.GetByID(ctx, req.ExamVersionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("load exam version: %w", err)
	}
	if version.Status != model.ExamVersionStatusPublished {
		return nil, ErrExamNotPublished
	}

	issued := make([]model.IssuedTicket, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		candidate := &model.Candidate{
			ID:       uuid.New(),
			FullName: c.FullName,
			Email:    c.Email,
		}
		if err := s.candidateRepo.GetOrCreate(ctx, candidate); err != nil {
			return nil, fmt.Errorf("resolve candidate %s: %w", c.Email, err)
		}

		code, err := randomString(ticketCodeAlphabet, ticketCodeLength)
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		pin, err := randomString("0123456789", ticketPINLength)
		if err != nil {
			return nil, fmt.Errorf("generate pin: %w", err)
		}
		pinHash, err := s.authService.HashSecret(pin)
		if err != nil {
			return nil, fmt.Errorf("hash pin: %w", err)
		}

		ticket := &model.Ticket{
			ID:            uuid.New(),
			Code:          code,
			PINHash:       pinHash,
			CandidateID:   candidate.ID,
			ExamVersionID: req.ExamVersionID,
			Status:        model.TicketStatusActive,
			IssuedBy:      staffID,
		}
		if err := s.ticketRepo.Create(ctx, ticket); err != nil {
			return nil, fmt.Errorf("create ticket for %s: %w", c.Email, err)
		}

		issued = append(issued, model.IssuedTicket{
			TicketID:  ticket.ID,
			Code:      code,
			PIN:       pin,
			Candidate: *candidate,
		})
	}

	s.auditService.Record(ctx, "ticket.issue_batch", req.ExamVersionID.String(), repository.ActorStaff, strconv.Itoa(staffID), nil)
	log.Info().
		Str("exam_version_id", req.ExamVersionID.String()).
		Int("count", len(issued)).
		Msg("Tickets issued")

	return issued, nil
}

// ListByExamVersion returns a staff-facing page of tickets for one version.
func (s *TicketService) ListByExamVersion(ctx context.Context, examVersionID uuid.UUID, page, perPage int) ([]repository.TicketOverview, int64, error) {
	return s.ticketRepo.ListByExamVersion(ctx, examVersionID, page, perPage)
}

// randomString draws length characters from alphabet with crypto/rand.
func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
