package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
	"github.com/aptivohq/aptivo-backend/internal/websocket"
)

// TimerService applies client-reported elapsed deltas to the server-side
// module timers. The server value is authoritative and monotone: a delta can
// only shrink it, never below zero.
type TimerService struct {
	db          *pgxpool.Pool
	rdb         *redis.Client
	attemptRepo *repository.AttemptRepository
	timerRepo   *repository.AttemptTimerRepository
}

// NewTimerService creates a new TimerService.
func NewTimerService(db *pgxpool.Pool, rdb *redis.Client, attemptRepo *repository.AttemptRepository, timerRepo *repository.AttemptTimerRepository) *TimerService {
	return &TimerService{db: db, rdb: rdb, attemptRepo: attemptRepo, timerRepo: timerRepo}
}

// ApplyElapsed deducts a delta from one module timer and returns the new
// remaining seconds. Rejected unless the attempt is IN_PROGRESS.
func (s *TimerService) ApplyElapsed(ctx context.Context, attemptID uuid.UUID, req *model.UpdateTimerRequest) (int, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrAttemptNotFound
		}
		return 0, fmt.Errorf("load attempt: %w", err)
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return 0, ErrInvalidState
	}

	remaining, err := s.timerRepo.ApplyElapsed(ctx, attemptID, req.ModuleID, req.ElapsedSeconds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrTimerNotFound
		}
		return 0, fmt.Errorf("apply elapsed: %w", err)
	}

	payload, _ := json.Marshal(map[string]any{"module_id": req.ModuleID, "remaining_seconds": remaining})
	websocket.PublishMonitorEvent(ctx, s.rdb, attemptID.String(), websocket.MonitorTimerUpdated, payload)

	return remaining, nil
}

// List returns all module timers of an attempt in module order.
func (s *TimerService) List(ctx context.Context, attemptID uuid.UUID) ([]model.AttemptModuleTimer, error) {
	return s.timerRepo.ListByAttempt(ctx, s.db, attemptID)
}
