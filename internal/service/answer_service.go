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

// AnswerService records answer selections. Writes are idempotent upserts:
// the latest selection wins and re-sending it changes nothing.
type AnswerService struct {
	db          *pgxpool.Pool
	rdb         *redis.Client
	attemptRepo *repository.AttemptRepository
	itemRepo    *repository.AttemptItemRepository
	answerRepo  *repository.AttemptAnswerRepository
}

// NewAnswerService creates a new AnswerService.
func NewAnswerService(
	db *pgxpool.Pool,
	rdb *redis.Client,
	attemptRepo *repository.AttemptRepository,
	itemRepo *repository.AttemptItemRepository,
	answerRepo *repository.AttemptAnswerRepository,
) *AnswerService {
	return &AnswerService{db: db, rdb: rdb, attemptRepo: attemptRepo, itemRepo: itemRepo, answerRepo: answerRepo}
}

// Record upserts the candidate's selection for one item. A nil option clears
// the answer. Rejected unless the attempt is IN_PROGRESS, the item belongs to
// the attempt and the option belongs to the item's question.
func (s *AnswerService) Record(ctx context.Context, attemptID uuid.UUID, req *model.RecordAnswerRequest) (*model.AttemptAnswer, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, ErrInvalidState
	}

	item, err := s.itemRepo.GetByID(ctx, req.AttemptItemID)
	if err != nil || item.AttemptID != attemptID {
		return nil, ErrItemNotFound
	}

	if req.SelectedOptionID != nil {
		ok, err := s.itemRepo.OptionBelongsToQuestion(ctx, *req.SelectedOptionID, item.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("check option: %w", err)
		}
		if !ok {
			return nil, ErrOptionMismatch
		}
	}

	answer, err := s.answerRepo.Upsert(ctx, item.ID, req.SelectedOptionID)
	if err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}

	payload, _ := json.Marshal(map[string]any{"attempt_item_id": item.ID})
	websocket.PublishMonitorEvent(ctx, s.rdb, attemptID.String(), websocket.MonitorAnswerRecorded, payload)

	return answer, nil
}
