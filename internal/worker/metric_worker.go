package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

const (
	MetricBatchSize    = 100
	MetricBatchTimeout = 2 * time.Second
	MetricPollTimeout  = 1 * time.Second
)

// MetricWorker drains the metric queue and batch-upserts item metrics.
// Metrics are derived data, so losing one is harmless; the worker still
// falls back to row-at-a-time writes and requeues on persistent failure.
type MetricWorker struct {
	pool          *pgxpool.Pool
	rdb           *redis.Client
	telemetryRepo *repository.TelemetryRepository
	log           zerolog.Logger
}

// NewMetricWorker creates a new MetricWorker.
func NewMetricWorker(pool *pgxpool.Pool, rdb *redis.Client, telemetryRepo *repository.TelemetryRepository, log zerolog.Logger) *MetricWorker {
	return &MetricWorker{
		pool:          pool,
		rdb:           rdb,
		telemetryRepo: telemetryRepo,
		log:           log.With().Str("component", "metric_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled, then drains the batch.
func (w *MetricWorker) Start(ctx context.Context) {
	w.log.Info().Msg("MetricWorker started")

	batch := make([]model.AttemptItemMetric, 0, MetricBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= MetricBatchSize || time.Since(lastFlush) >= MetricBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, MetricPollTimeout, config.WorkerKey.PersistMetricsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var m model.AttemptItemMetric
			if err := json.Unmarshal([]byte(item[1]), &m); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}
			batch = append(batch, m)
		}
	}
}

func (w *MetricWorker) flushSafe(ctx context.Context, batch []model.AttemptItemMetric) {
	if len(batch) == 0 {
		return
	}

	// The queue can hold several snapshots of the same item; only the newest
	// matters, so dedupe keeping the last occurrence.
	latest := make(map[string]model.AttemptItemMetric, len(batch))
	order := make([]string, 0, len(batch))
	for _, m := range batch {
		key := m.AttemptItemID.String()
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = m
	}
	deduped := make([]model.AttemptItemMetric, 0, len(order))
	for _, key := range order {
		deduped = append(deduped, latest[key])
	}

	if err := w.telemetryRepo.BulkUpsertMetrics(ctx, deduped); err != nil {
		w.log.Warn().Err(err).Msg("Bulk metric upsert failed, using fallback")

		for i := range deduped {
			if err := w.telemetryRepo.UpsertMetric(ctx, &deduped[i]); err != nil {
				w.log.Error().Err(err).Msg("Single metric upsert failed, requeueing")
				raw, _ := json.Marshal(deduped[i])
				w.rdb.RPush(ctx, config.WorkerKey.PersistMetricsQueue, raw)
			}
		}
		return
	}

	w.log.Debug().Int("count", len(deduped)).Msg("Metrics persisted")
}
