package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

// AuditService records audit entries. Entries are pushed to a Redis queue and
// batch-persisted by the audit worker; a failed push is logged and dropped
// rather than failing the caller's request.
type AuditService struct {
	rdb *redis.Client
}

// NewAuditService creates a new AuditService.
func NewAuditService(rdb *redis.Client) *AuditService {
	return &AuditService{rdb: rdb}
}

// Record enqueues one audit entry, fire-and-forget.
func (s *AuditService) Record(ctx context.Context, action, entityID, actorType, actorID string, metadata json.RawMessage) {
	entry := repository.AuditEntry{
		Action:    action,
		EntityID:  entityID,
		ActorType: actorType,
		ActorID:   actorID,
		Metadata:  metadata,
		At:        time.Now(),
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to marshal audit entry")
		return
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAuditQueue, raw).Err(); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to enqueue audit entry")
	}
}
