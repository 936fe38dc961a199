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
	"github.com/rs/zerolog/log"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

// TelemetryService appends behavioral events and maintains the derived
// per-item metrics. The event log is the source of truth; metrics are
// recomputed from it on every event and persisted asynchronously, so a lost
// metric write costs nothing.
type TelemetryService struct {
	db            *pgxpool.Pool
	rdb           *redis.Client
	attemptRepo   *repository.AttemptRepository
	itemRepo      *repository.AttemptItemRepository
	telemetryRepo *repository.TelemetryRepository
}

// NewTelemetryService creates a new TelemetryService.
func NewTelemetryService(
	db *pgxpool.Pool,
	rdb *redis.Client,
	attemptRepo *repository.AttemptRepository,
	itemRepo *repository.AttemptItemRepository,
	telemetryRepo *repository.TelemetryRepository,
) *TelemetryService {
	return &TelemetryService{db: db, rdb: rdb, attemptRepo: attemptRepo, itemRepo: itemRepo, telemetryRepo: telemetryRepo}
}

// RecordEvent appends one event to the log and returns the item's refreshed
// metrics. Rejected unless the attempt is IN_PROGRESS and the item belongs to
// it. The event's server timestamp is assigned on insert; client time is kept
// as opaque context only.
func (s *TelemetryService) RecordEvent(ctx context.Context, attemptID uuid.UUID, req *model.RecordTelemetryRequest) (*model.AttemptItemMetric, error) {
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

	event := &model.AttemptItemEvent{
		AttemptID:     attemptID,
		AttemptItemID: item.ID,
		EventType:     req.EventType,
		ClientTime:    req.ClientTime,
		Metadata:      req.Metadata,
	}
	if err := s.telemetryRepo.InsertEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	metric, err := s.computeMetric(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	s.enqueueMetric(ctx, metric)
	return metric, nil
}

// GetItemMetrics recomputes the metrics of one item from the event log.
func (s *TelemetryService) GetItemMetrics(ctx context.Context, attemptID, itemID uuid.UUID) (*model.AttemptItemMetric, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil || item.AttemptID != attemptID {
		return nil, ErrItemNotFound
	}
	return s.computeMetric(ctx, itemID)
}

// RebuildAttemptMetrics replays the event log for every item of an attempt
// and persists the results synchronously. Staff-facing repair operation.
func (s *TelemetryService) RebuildAttemptMetrics(ctx context.Context, attemptID uuid.UUID) ([]model.AttemptItemMetric, error) {
	items, err := s.itemRepo.ListByAttempt(ctx, s.db, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	metrics := make([]model.AttemptItemMetric, 0, len(items))
	for _, item := range items {
		metric, err := s.computeMetric(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, *metric)
	}

	if err := s.telemetryRepo.BulkUpsertMetrics(ctx, metrics); err != nil {
		return nil, fmt.Errorf("persist metrics: %w", err)
	}
	return metrics, nil
}

func (s *TelemetryService) computeMetric(ctx context.Context, itemID uuid.UUID) (*model.AttemptItemMetric, error) {
	events, err := s.telemetryRepo.ListItemEvents(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	input := make([]MetricEvent, 0, len(events))
	for _, e := range events {
		input = append(input, MetricEvent{Type: e.EventType, At: e.ServerTime})
	}

	metric := ComputeItemMetrics(input)
	metric.AttemptItemID = itemID
	return &metric, nil
}

func (s *TelemetryService) enqueueMetric(ctx context.Context, metric *model.AttemptItemMetric) {
	raw, err := json.Marshal(metric)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal item metric")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistMetricsQueue, raw).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to enqueue item metric")
	}
}
