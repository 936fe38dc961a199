package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptAnswerScore is the per-item scoring result, created exactly once.
// Its existence is the "already scored" guard.
type AttemptAnswerScore struct {
	AttemptItemID uuid.UUID `json:"attempt_item_id"`
	IsCorrect     bool      `json:"is_correct"`
	PointsAwarded int       `json:"points_awarded"`
}

// AttemptSectionScore aggregates one module's items within an attempt.
type AttemptSectionScore struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	ModuleID  uuid.UUID `json:"module_id"`
	RawScore  int       `json:"raw_score"`
	MaxScore  int       `json:"max_score"`
}

// AttemptScore is the attempt total, created in the same transaction as the
// per-item and per-section rows.
type AttemptScore struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	RawScore  int       `json:"raw_score"`
	MaxScore  int       `json:"max_score"`
	ScoredAt  time.Time `json:"scored_at"`
}
