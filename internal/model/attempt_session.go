package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates attempt session states.
type SessionStatus string

const (
	SessionStatusActive  SessionStatus = "ACTIVE"
	SessionStatusRevoked SessionStatus = "REVOKED"
)

// AttemptSession is one device's claim on an attempt. A partial unique index
// guarantees at most one ACTIVE session per attempt; lock/resume always
// revokes before it creates.
type AttemptSession struct {
	ID               uuid.UUID     `json:"id"`
	AttemptID        uuid.UUID     `json:"attempt_id"`
	DeviceID         *string       `json:"device_id,omitempty"`
	Status           SessionStatus `json:"status"`
	CreatedByStaffID *int          `json:"created_by_staff_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	RevokedAt        *time.Time    `json:"revoked_at,omitempty"`
}
