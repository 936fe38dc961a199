package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

// StartAttemptResult is everything the candidate client needs after a
// successful start: the session-bound token plus the full attempt state.
type StartAttemptResult struct {
	Token    string           `json:"token"`
	Snapshot *AttemptSnapshot `json:"snapshot"`
}

// AttemptSnapshot is the complete restorable state of one attempt. The same
// shape serves the start response, resume after takeover, and crash recovery.
type AttemptSnapshot struct {
	Attempt             model.Attempt                     `json:"attempt"`
	Items               []SnapshotItem                    `json:"items"`
	Answers             map[uuid.UUID]model.AttemptAnswer `json:"answers"`
	Timers              []model.AttemptModuleTimer        `json:"timers"`
	Score               *model.AttemptScore               `json:"score,omitempty"`
	ActiveWindowSeconds int                               `json:"active_window_seconds"`
}

// SnapshotItem joins an attempt item with its question content. The correct
// option never appears here.
type SnapshotItem struct {
	Item     model.AttemptItem `json:"item"`
	Question model.Question    `json:"question"`
}

// AttemptService owns the attempt lifecycle: start, submit and the scoring
// that submission triggers exactly once.
type AttemptService struct {
	db           *pgxpool.Pool
	attemptRepo  *repository.AttemptRepository
	sessionRepo  *repository.AttemptSessionRepository
	itemRepo     *repository.AttemptItemRepository
	answerRepo   *repository.AttemptAnswerRepository
	timerRepo    *repository.AttemptTimerRepository
	scoreRepo    *repository.ScoreRepository
	ticketRepo   *repository.TicketRepository
	examService  *ExamService
	authService  *AuthService
	auditService *AuditService
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	db *pgxpool.Pool,
	attemptRepo *repository.AttemptRepository,
	sessionRepo *repository.AttemptSessionRepository,
	itemRepo *repository.AttemptItemRepository,
	answerRepo *repository.AttemptAnswerRepository,
	timerRepo *repository.AttemptTimerRepository,
	scoreRepo *repository.ScoreRepository,
	ticketRepo *repository.TicketRepository,
	examService *ExamService,
	authService *AuthService,
	auditService *AuditService,
) *AttemptService {
	return &AttemptService{
		db:           db,
		attemptRepo:  attemptRepo,
		sessionRepo:  sessionRepo,
		itemRepo:     itemRepo,
		answerRepo:   answerRepo,
		timerRepo:    timerRepo,
		scoreRepo:    scoreRepo,
		ticketRepo:   ticketRepo,
		examService:  examService,
		authService:  authService,
		auditService: auditService,
	}
}

// Start authenticates a ticket+PIN pair and creates the attempt: one attempt
// row, one ACTIVE session, the denormalized item set and one timer per
// module, all in a single transaction. A ticket gets exactly one attempt.
func (s *AttemptService) Start(ctx context.Context, req *model.StartAttemptRequest) (*StartAttemptResult, error) {
	ticket, err := s.ticketRepo.GetByCode(ctx, req.TicketCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load ticket: %w", err)
	}
	if err := s.authService.CheckSecret(ticket.PINHash, req.PIN); err != nil {
		return nil, err
	}
	if ticket.Status != model.TicketStatusActive {
		return nil, ErrTicketNotActive
	}

	if _, err := s.attemptRepo.GetByTicketID(ctx, ticket.ID); err == nil {
		return nil, ErrAttemptExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing attempt: %w", err)
	}

	def, err := s.examService.GetPublishedDefinition(ctx, ticket.ExamVersionID)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		ID:            uuid.New(),
		CandidateID:   ticket.CandidateID,
		ExamVersionID: ticket.ExamVersionID,
		TicketID:      ticket.ID,
		Status:        model.AttemptStatusInProgress,
	}
	session := &model.AttemptSession{
		ID:        uuid.New(),
		AttemptID: attempt.ID,
		Status:    model.SessionStatusActive,
	}
	if req.DeviceID != "" {
		session.DeviceID = &req.DeviceID
	}

	items := make([]model.AttemptItem, 0, def.QuestionCount())
	timers := make([]model.AttemptModuleTimer, 0, len(def.Modules))
	position := 0
	for _, m := range def.Modules {
		timers = append(timers, model.AttemptModuleTimer{
			AttemptID:        attempt.ID,
			ModuleID:         m.Module.ID,
			RemainingSeconds: m.Module.DurationSeconds,
		})
		for _, q := range m.Questions {
			items = append(items, model.AttemptItem{
				ID:         uuid.New(),
				AttemptID:  attempt.ID,
				ModuleID:   m.Module.ID,
				QuestionID: q.ID,
				Position:   position,
				Points:     q.Points,
			})
			position++
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.attemptRepo.Create(ctx, tx, attempt); err != nil {
		// A concurrent start on the same ticket loses the race here rather
		// than at the existence check above.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrAttemptExists
		}
		return nil, fmt.Errorf("create attempt: %w", err)
	}
	if err := s.sessionRepo.Create(ctx, tx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := s.itemRepo.BulkInsert(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("insert items: %w", err)
	}
	if err := s.timerRepo.BulkInsert(ctx, tx, timers); err != nil {
		return nil, fmt.Errorf("insert timers: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.authService.CacheActiveSession(ctx, attempt.ID, session.ID)

	token, err := s.authService.GenerateCandidateToken(attempt.ID, session.ID, ticket.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.auditService.Record(ctx, "attempt.start", attempt.ID.String(), repository.ActorCandidate, ticket.CandidateID.String(), nil)
	log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("ticket_code", ticket.Code).
		Int("items", len(items)).
		Msg("Attempt started")

	snapshot := s.assembleSnapshot(attempt, items, map[uuid.UUID]model.AttemptAnswer{}, timers, nil, def)
	return &StartAttemptResult{Token: token, Snapshot: snapshot}, nil
}

// Snapshot returns the full restorable state of an attempt.
func (s *AttemptService) Snapshot(ctx context.Context, attemptID uuid.UUID) (*AttemptSnapshot, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}

	items, err := s.itemRepo.ListByAttempt(ctx, s.db, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	answers, err := s.answerRepo.ListByAttempt(ctx, s.db, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	timers, err := s.timerRepo.ListByAttempt(ctx, s.db, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load timers: %w", err)
	}

	var score *model.AttemptScore
	if attempt.Status == model.AttemptStatusScored {
		score, err = s.scoreRepo.GetAttemptScore(ctx, attemptID)
		if err != nil {
			return nil, fmt.Errorf("load score: %w", err)
		}
	}

	def, err := s.examService.GetDefinition(ctx, attempt.ExamVersionID)
	if err != nil {
		return nil, err
	}

	return s.assembleSnapshot(attempt, items, answers, timers, score, def), nil
}

// Submit re-authenticates the ticket+PIN, finalizes the attempt and scores it
// in the same transaction. SUBMITTED is never observable from outside: the
// attempt goes IN_PROGRESS to SCORED atomically, and a retry of the same
// submission gets ErrInvalidState rather than a second score.
func (s *AttemptService) Submit(ctx context.Context, attemptID uuid.UUID, req *model.SubmitAttemptRequest) (*model.AttemptScore, error) {
	ticket, err := s.ticketRepo.GetByCode(ctx, req.TicketCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load ticket: %w", err)
	}
	if err := s.authService.CheckSecret(ticket.PINHash, req.PIN); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	attempt, err := s.attemptRepo.GetForUpdate(ctx, tx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("lock attempt: %w", err)
	}
	if attempt.TicketID != ticket.ID {
		return nil, ErrInvalidCredentials
	}
	if attempt.Status == model.AttemptStatusScored {
		return nil, ErrAlreadyScored
	}
	if !attempt.Status.CanTransitionTo(model.AttemptStatusSubmitted) {
		return nil, ErrInvalidState
	}

	scored, err := s.scoreRepo.HasScores(ctx, tx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("check scores: %w", err)
	}
	if scored {
		return nil, ErrAlreadyScored
	}

	now := time.Now()
	if ok, err := s.attemptRepo.MarkSubmitted(ctx, tx, attemptID, now); err != nil {
		return nil, fmt.Errorf("mark submitted: %w", err)
	} else if !ok {
		return nil, ErrInvalidState
	}

	score, err := s.scoreInTx(ctx, tx, attempt)
	if err != nil {
		return nil, err
	}

	if ok, err := s.attemptRepo.UpdateStatus(ctx, tx, attemptID, model.AttemptStatusSubmitted, model.AttemptStatusScored); err != nil {
		return nil, fmt.Errorf("mark scored: %w", err)
	} else if !ok {
		return nil, ErrInvalidState
	}

	// The ticket is spent on submit, not on start, so a crash mid-exam never
	// strands the candidate with a dead ticket.
	if _, err := s.ticketRepo.MarkUsed(ctx, tx, ticket.ID); err != nil {
		return nil, fmt.Errorf("mark ticket used: %w", err)
	}

	if _, err := s.sessionRepo.RevokeActive(ctx, tx, attemptID); err != nil {
		return nil, fmt.Errorf("revoke session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.authService.DropActiveSession(ctx, attemptID)
	s.auditService.Record(ctx, "attempt.submit", attemptID.String(), repository.ActorCandidate, attempt.CandidateID.String(), nil)
	log.Info().
		Str("attempt_id", attemptID.String()).
		Int("raw_score", score.RawScore).
		Int("max_score", score.MaxScore).
		Msg("Attempt submitted and scored")

	return score, nil
}

// scoreInTx loads the attempt's items and final answers, resolves the answer
// key from the exam definition and writes all score rows inside tx.
func (s *AttemptService) scoreInTx(ctx context.Context, tx pgx.Tx, attempt *model.Attempt) (*model.AttemptScore, error) {
	items, err := s.itemRepo.ListByAttempt(ctx, tx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	answers, err := s.answerRepo.ListByAttempt(ctx, tx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}

	def, err := s.examService.GetDefinition(ctx, attempt.ExamVersionID)
	if err != nil {
		return nil, err
	}
	correctByQuestion := make(map[uuid.UUID]uuid.UUID)
	for _, m := range def.Modules {
		for _, q := range m.Questions {
			if q.CorrectOptionID != nil {
				correctByQuestion[q.ID] = *q.CorrectOptionID
			}
		}
	}

	scorable := make([]ScorableItem, 0, len(items))
	for _, item := range items {
		si := ScorableItem{
			ItemID:          item.ID,
			ModuleID:        item.ModuleID,
			Points:          item.Points,
			CorrectOptionID: correctByQuestion[item.QuestionID],
		}
		if ans, ok := answers[item.ID]; ok {
			si.SelectedOptionID = ans.SelectedOptionID
		}
		scorable = append(scorable, si)
	}

	outcome := ScoreItems(scorable)

	itemScores := make([]model.AttemptAnswerScore, 0, len(outcome.Items))
	for _, is := range outcome.Items {
		itemScores = append(itemScores, model.AttemptAnswerScore{
			AttemptItemID: is.ItemID,
			IsCorrect:     is.IsCorrect,
			PointsAwarded: is.PointsAwarded,
		})
	}
	sectionScores := make([]model.AttemptSectionScore, 0, len(outcome.Sections))
	for _, ss := range outcome.Sections {
		sectionScores = append(sectionScores, model.AttemptSectionScore{
			AttemptID: attempt.ID,
			ModuleID:  ss.ModuleID,
			RawScore:  ss.RawScore,
			MaxScore:  ss.MaxScore,
		})
	}

	if err := s.scoreRepo.InsertItemScores(ctx, tx, itemScores); err != nil {
		return nil, fmt.Errorf("insert item scores: %w", err)
	}
	if err := s.scoreRepo.InsertSectionScores(ctx, tx, sectionScores); err != nil {
		return nil, fmt.Errorf("insert section scores: %w", err)
	}

	score := &model.AttemptScore{
		AttemptID: attempt.ID,
		RawScore:  outcome.RawScore,
		MaxScore:  outcome.MaxScore,
	}
	if err := s.scoreRepo.InsertAttemptScore(ctx, tx, score); err != nil {
		return nil, fmt.Errorf("insert attempt score: %w", err)
	}
	return score, nil
}

// GetScore returns the total and per-section scores of a SCORED attempt.
func (s *AttemptService) GetScore(ctx context.Context, attemptID uuid.UUID) (*model.AttemptScore, []model.AttemptSectionScore, error) {
	score, err := s.scoreRepo.GetAttemptScore(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrAttemptNotFound
		}
		return nil, nil, fmt.Errorf("load score: %w", err)
	}
	sections, err := s.scoreRepo.ListSectionScores(ctx, attemptID)
	if err != nil {
		return nil, nil, fmt.Errorf("load section scores: %w", err)
	}
	return score, sections, nil
}

// ListByExamVersion returns a staff-facing page of attempts for one version.
func (s *AttemptService) ListByExamVersion(ctx context.Context, examVersionID uuid.UUID, page, perPage int) ([]repository.AttemptOverview, int64, error) {
	return s.attemptRepo.ListByExamVersion(ctx, examVersionID, page, perPage)
}

func (s *AttemptService) assembleSnapshot(
	attempt *model.Attempt,
	items []model.AttemptItem,
	answers map[uuid.UUID]model.AttemptAnswer,
	timers []model.AttemptModuleTimer,
	score *model.AttemptScore,
	def *model.ExamDefinition,
) *AttemptSnapshot {
	questions := make(map[uuid.UUID]model.Question)
	if def != nil {
		for _, m := range def.Modules {
			for _, q := range m.Questions {
				sanitized := q
				sanitized.CorrectOptionID = nil
				questions[q.ID] = sanitized
			}
		}
	}

	snapItems := make([]SnapshotItem, 0, len(items))
	for _, item := range items {
		snapItems = append(snapItems, SnapshotItem{
			Item:     item,
			Question: questions[item.QuestionID],
		})
	}

	return &AttemptSnapshot{
		Attempt:             *attempt,
		Items:               snapItems,
		Answers:             answers,
		Timers:              timers,
		Score:               score,
		ActiveWindowSeconds: ActiveWindowSeconds,
	}
}
