package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

const (
	AuditBatchSize    = 200
	AuditBatchTimeout = 3 * time.Second
	AuditPollTimeout  = 1 * time.Second
)

// AuditWorker drains the audit queue and batch-inserts log rows.
type AuditWorker struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	auditRepo *repository.AuditRepository
	log       zerolog.Logger
}

// NewAuditWorker creates a new AuditWorker.
func NewAuditWorker(pool *pgxpool.Pool, rdb *redis.Client, auditRepo *repository.AuditRepository, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		pool:      pool,
		rdb:       rdb,
		auditRepo: auditRepo,
		log:       log.With().Str("component", "audit_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled, then drains the batch.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	batch := make([]repository.AuditEntry, 0, AuditBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AuditBatchSize || time.Since(lastFlush) >= AuditBatchTimeout) {

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
			item, err := w.rdb.BLPop(ctx, AuditPollTimeout, config.WorkerKey.PersistAuditQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var e repository.AuditEntry
			if err := json.Unmarshal([]byte(item[1]), &e); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}
			batch = append(batch, e)
		}
	}
}

func (w *AuditWorker) flushSafe(ctx context.Context, batch []repository.AuditEntry) {
	if len(batch) == 0 {
		return
	}

	if err := w.auditRepo.BulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("Bulk audit insert failed, using fallback")

		for i := range batch {
			if err := w.auditRepo.InsertOne(ctx, &batch[i]); err != nil {
				w.log.Error().Err(err).Msg("Single audit insert failed, requeueing")
				raw, _ := json.Marshal(batch[i])
				w.rdb.RPush(ctx, config.WorkerKey.PersistAuditQueue, raw)
			}
		}
		return
	}

	w.log.Debug().Int("count", len(batch)).Msg("Audit entries persisted")
}
