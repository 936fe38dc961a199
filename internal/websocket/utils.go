package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/aptivohq/aptivo-backend/internal/config"
)

// PublishMonitorEvent broadcasts one event on the attempt's monitor channel.
// Best effort: monitoring must never fail the candidate's request.
func PublishMonitorEvent(ctx context.Context, rdb *redis.Client, attemptID string, eventType MonitorEventType, payload json.RawMessage) {
	event := MonitorEvent{
		Type:      eventType,
		AttemptID: attemptID,
		At:        time.Now(),
		Payload:   payload,
	}

	raw, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", string(eventType)).Msg("Failed to marshal monitor event")
		return
	}

	channel := config.CacheKey.AttemptMonitorChannel(attemptID)
	if err := rdb.Publish(ctx, channel, raw).Err(); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("Failed to publish monitor event")
	}
}
