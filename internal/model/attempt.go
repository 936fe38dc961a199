package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt lifecycle states. There is no stored
// NOT_STARTED state: an un-started attempt is simply the absence of a row,
// because "start" creates the attempt already IN_PROGRESS.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusLocked     AttemptStatus = "LOCKED"
	AttemptStatusSubmitted  AttemptStatus = "SUBMITTED"
	AttemptStatusScored     AttemptStatus = "SCORED"
	AttemptStatusAborted    AttemptStatus = "ABORTED"
)

// attemptTransitions is the legal-transition table. LOCKED⇄IN_PROGRESS is the
// only cycle (device takeover); everything else is one-directional. ABORTED
// is reachable from every non-terminal state, including SUBMITTED, even
// though submit and scoring run in one transaction and a SUBMITTED row is
// normally never observed outside it.
var attemptTransitions = map[AttemptStatus][]AttemptStatus{
	AttemptStatusInProgress: {AttemptStatusLocked, AttemptStatusSubmitted, AttemptStatusAborted},
	AttemptStatusLocked:     {AttemptStatusInProgress, AttemptStatusAborted},
	AttemptStatusSubmitted:  {AttemptStatusScored, AttemptStatusAborted},
	AttemptStatusScored:     {},
	AttemptStatusAborted:    {},
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s AttemptStatus) CanTransitionTo(next AttemptStatus) bool {
	for _, allowed := range attemptTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s AttemptStatus) IsTerminal() bool {
	return len(attemptTransitions[s]) == 0
}

// Attempt is one candidate's single run of one exam version, bound to one
// ticket. At most one attempt exists per ticket.
type Attempt struct {
	ID            uuid.UUID     `json:"id"`
	CandidateID   uuid.UUID     `json:"candidate_id"`
	ExamVersionID uuid.UUID     `json:"exam_version_id"`
	TicketID      uuid.UUID     `json:"ticket_id"`
	Status        AttemptStatus `json:"status"`
	StartedAt     time.Time     `json:"started_at"`
	SubmittedAt   *time.Time    `json:"submitted_at,omitempty"`
}

// StartAttemptRequest is the payload for starting an attempt.
type StartAttemptRequest struct {
	TicketCode string `json:"ticket_code" binding:"required,min=4,max=32"`
	PIN        string `json:"pin" binding:"required,min=4,max=12"`
	DeviceID   string `json:"device_id" binding:"omitempty,max=128"`
}

// SubmitAttemptRequest re-authenticates the candidate for submission.
type SubmitAttemptRequest struct {
	TicketCode string `json:"ticket_code" binding:"required,min=4,max=32"`
	PIN        string `json:"pin" binding:"required,min=4,max=12"`
}

// ResumeAttemptRequest optionally binds the fresh session to a new device.
type ResumeAttemptRequest struct {
	DeviceID string `json:"device_id" binding:"omitempty,max=128"`
}
