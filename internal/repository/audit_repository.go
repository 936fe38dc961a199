package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Audit actor types.
const (
	ActorStaff     = "staff"
	ActorCandidate = "candidate"
	ActorSystem    = "system"
)

// AuditEntry is one audit-log row. Written fire-and-forget through the Redis
// queue and batch-inserted by the audit worker.
type AuditEntry struct {
	Action    string          `json:"action"`
	EntityID  string          `json:"entity_id"`
	ActorType string          `json:"actor_type"`
	ActorID   string          `json:"actor_id"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	At        time.Time       `json:"at"`
}

// AuditRepository handles audit log persistence.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// BulkInsert writes a batch of entries with UNNEST.
func (r *AuditRepository) BulkInsert(ctx context.Context, entries []AuditEntry) error {
	n := len(entries)
	actions := make([]string, 0, n)
	entityIDs := make([]string, 0, n)
	actorTypes := make([]string, 0, n)
	actorIDs := make([]string, 0, n)
	metadatas := make([][]byte, 0, n)
	ats := make([]time.Time, 0, n)

	for _, e := range entries {
		actions = append(actions, e.Action)
		entityIDs = append(entityIDs, e.EntityID)
		actorTypes = append(actorTypes, e.ActorType)
		actorIDs = append(actorIDs, e.ActorID)
		if e.Metadata == nil {
			metadatas = append(metadatas, []byte("{}"))
		} else {
			metadatas = append(metadatas, e.Metadata)
		}
		ats = append(ats, e.At)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (action, entity_id, actor_type, actor_id, metadata, at)
		 SELECT u.action, u.entity_id, u.actor_type, u.actor_id, u.metadata, u.at
		 FROM UNNEST($1::text[], $2::text[], $3::text[], $4::text[], $5::jsonb[], $6::timestamptz[])
		     AS u (action, entity_id, actor_type, actor_id, metadata, at)`,
		actions, entityIDs, actorTypes, actorIDs, metadatas, ats)
	return err
}

// InsertOne writes a single entry. Fallback path for the worker.
func (r *AuditRepository) InsertOne(ctx context.Context, e *AuditEntry) error {
	metadata := e.Metadata
	if metadata == nil {
		metadata = []byte("{}")
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (action, entity_id, actor_type, actor_id, metadata, at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.Action, e.EntityID, e.ActorType, e.ActorID, metadata, e.At)
	return err
}
