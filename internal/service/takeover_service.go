package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
	"github.com/aptivohq/aptivo-backend/internal/websocket"
)

// ResumeResult carries the fresh session token and state after a takeover.
type ResumeResult struct {
	Token    string           `json:"token"`
	Snapshot *AttemptSnapshot `json:"snapshot"`
}

// TakeoverService implements the proctor-driven lock/resume cycle and abort.
// Lock revokes the ACTIVE session and freezes the attempt; resume mints a new
// session, so the old device's token is dead the moment the new one works.
type TakeoverService struct {
	db             *pgxpool.Pool
	rdb            *redis.Client
	attemptRepo    *repository.AttemptRepository
	sessionRepo    *repository.AttemptSessionRepository
	attemptService *AttemptService
	authService    *AuthService
	auditService   *AuditService
}

// NewTakeoverService creates a new TakeoverService.
func NewTakeoverService(
	db *pgxpool.Pool,
	rdb *redis.Client,
	attemptRepo *repository.AttemptRepository,
	sessionRepo *repository.AttemptSessionRepository,
	attemptService *AttemptService,
	authService *AuthService,
	auditService *AuditService,
) *TakeoverService {
	return &TakeoverService{
		db:             db,
		rdb:            rdb,
		attemptRepo:    attemptRepo,
		sessionRepo:    sessionRepo,
		attemptService: attemptService,
		authService:    authService,
		auditService:   auditService,
	}
}

// Lock freezes an IN_PROGRESS attempt and revokes its ACTIVE session.
// Idempotent in effect: locking a LOCKED attempt returns ErrInvalidState, and
// no answer, timer or telemetry write succeeds while locked.
func (s *TakeoverService) Lock(ctx context.Context, attemptID uuid.UUID, staffID int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	attempt, err := s.attemptRepo.GetForUpdate(ctx, tx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAttemptNotFound
		}
		return fmt.Errorf("lock attempt row: %w", err)
	}
	if !attempt.Status.CanTransitionTo(model.AttemptStatusLocked) {
		return ErrInvalidState
	}

	if ok, err := s.attemptRepo.UpdateStatus(ctx, tx, attemptID, attempt.Status, model.AttemptStatusLocked); err != nil {
		return fmt.Errorf("update status: %w", err)
	} else if !ok {
		return ErrInvalidState
	}
	if _, err := s.sessionRepo.RevokeActive(ctx, tx, attemptID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.authService.DropActiveSession(ctx, attemptID)
	s.auditService.Record(ctx, "attempt.lock", attemptID.String(), repository.ActorStaff, strconv.Itoa(staffID), nil)
	websocket.PublishMonitorEvent(ctx, s.rdb, attemptID.String(), websocket.MonitorAttemptLocked, nil)
	log.Info().Str("attempt_id", attemptID.String()).Int("staff_id", staffID).Msg("Attempt locked")
	return nil
}

// Resume unfreezes a LOCKED attempt on a new device: creates a fresh ACTIVE
// session, returns a token bound to it and the full snapshot so the new
// device can restore exactly where the old one stopped.
func (s *TakeoverService) Resume(ctx context.Context, attemptID uuid.UUID, req *model.ResumeAttemptRequest, staffID int) (*ResumeResult, error) {
	session := &model.AttemptSession{
		ID:        uuid.New(),
		AttemptID: attemptID,
		Status:    model.SessionStatusActive,
	}
	if req.DeviceID != "" {
		session.DeviceID = &req.DeviceID
	}
	if staffID != 0 {
		session.CreatedByStaffID = &staffID
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
		return nil, fmt.Errorf("lock attempt row: %w", err)
	}
	if attempt.Status != model.AttemptStatusLocked {
		return nil, ErrInvalidState
	}

	if ok, err := s.attemptRepo.UpdateStatus(ctx, tx, attemptID, model.AttemptStatusLocked, model.AttemptStatusInProgress); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	} else if !ok {
		return nil, ErrInvalidState
	}

	// The lock already revoked the old session, but a second revoke here is
	// harmless and keeps the one-ACTIVE-session invariant local to this tx.
	if _, err := s.sessionRepo.RevokeActive(ctx, tx, attemptID); err != nil {
		return nil, fmt.Errorf("revoke session: %w", err)
	}
	if err := s.sessionRepo.Create(ctx, tx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.authService.CacheActiveSession(ctx, attemptID, session.ID)

	token, err := s.authService.GenerateCandidateToken(attemptID, session.ID, attempt.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	snapshot, err := s.attemptService.Snapshot(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, "attempt.resume", attemptID.String(), repository.ActorStaff, strconv.Itoa(staffID), nil)
	websocket.PublishMonitorEvent(ctx, s.rdb, attemptID.String(), websocket.MonitorAttemptResumed, nil)
	log.Info().Str("attempt_id", attemptID.String()).Int("staff_id", staffID).Msg("Attempt resumed")

	return &ResumeResult{Token: token, Snapshot: snapshot}, nil
}

// Abort cancels a non-terminal attempt. The attempt is never scored and its
// session dies with it.
func (s *TakeoverService) Abort(ctx context.Context, attemptID uuid.UUID, staffID int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	attempt, err := s.attemptRepo.GetForUpdate(ctx, tx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAttemptNotFound
		}
		return fmt.Errorf("lock attempt row: %w", err)
	}
	if !attempt.Status.CanTransitionTo(model.AttemptStatusAborted) {
		return ErrInvalidState
	}

	if ok, err := s.attemptRepo.UpdateStatus(ctx, tx, attemptID, attempt.Status, model.AttemptStatusAborted); err != nil {
		return fmt.Errorf("update status: %w", err)
	} else if !ok {
		return ErrInvalidState
	}
	if _, err := s.sessionRepo.RevokeActive(ctx, tx, attemptID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.authService.DropActiveSession(ctx, attemptID)
	s.auditService.Record(ctx, "attempt.abort", attemptID.String(), repository.ActorStaff, strconv.Itoa(staffID), nil)
	websocket.PublishMonitorEvent(ctx, s.rdb, attemptID.String(), websocket.MonitorAttemptAborted, nil)
	log.Info().Str("attempt_id", attemptID.String()).Int("staff_id", staffID).Msg("Attempt aborted")
	return nil
}
