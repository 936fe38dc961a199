package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptItem is one question instance inside an attempt, denormalized from
// the exam version at start time. Immutable once created.
type AttemptItem struct {
	ID         uuid.UUID `json:"id"`
	AttemptID  uuid.UUID `json:"attempt_id"`
	ModuleID   uuid.UUID `json:"module_id"`
	QuestionID uuid.UUID `json:"question_id"`
	Position   int       `json:"position"`
	Points     int       `json:"points"`
}

// AttemptAnswer is the candidate's current selection for one item. Overwritten
// in place, never versioned: scoring only needs the final selection.
type AttemptAnswer struct {
	AttemptItemID    uuid.UUID  `json:"attempt_item_id"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
	AnsweredAt       *time.Time `json:"answered_at,omitempty"`
}

// RecordAnswerRequest is the payload for recording (or unsetting) an answer.
type RecordAnswerRequest struct {
	AttemptItemID    uuid.UUID  `json:"attempt_item_id" binding:"required"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
}
