package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptModuleTimer is the server-authoritative time box for one module of
// one attempt. RemainingSeconds only ever decreases, driven by client-reported
// elapsed deltas rather than a client-supplied absolute value.
type AttemptModuleTimer struct {
	AttemptID        uuid.UUID  `json:"attempt_id"`
	ModuleID         uuid.UUID  `json:"module_id"`
	RemainingSeconds int        `json:"remaining_seconds"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
}

// UpdateTimerRequest is the periodic elapsed-time delta from the client.
type UpdateTimerRequest struct {
	ModuleID       uuid.UUID `json:"module_id" binding:"required"`
	ElapsedSeconds int       `json:"elapsed_seconds" binding:"min=0"`
}
