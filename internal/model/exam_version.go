package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamVersionStatus enumerates exam version states.
type ExamVersionStatus string

const (
	ExamVersionStatusDraft     ExamVersionStatus = "DRAFT"
	ExamVersionStatusPublished ExamVersionStatus = "PUBLISHED"
	ExamVersionStatusArchived  ExamVersionStatus = "ARCHIVED"
)

// ExamVersion is an immutable-once-published exam definition.
type ExamVersion struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Status    ExamVersionStatus `json:"status"`
	CreatedBy int               `json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ExamModule is a timed, ordered section of an exam version.
type ExamModule struct {
	ID              uuid.UUID `json:"id"`
	ExamVersionID   uuid.UUID `json:"exam_version_id"`
	Title           string    `json:"title"`
	Position        int       `json:"position"`
	DurationSeconds int       `json:"duration_seconds"`
}

// ExamDefinition is the fully resolved exam version: ordered modules, their
// questions and options, and the per-question correct option. This is what
// gets denormalized into attempt rows at start time and cached in Redis once
// published.
type ExamDefinition struct {
	ExamVersion ExamVersion      `json:"exam_version"`
	Modules     []ModuleWithBank `json:"modules"`
}

// ModuleWithBank is a module together with its ordered questions.
type ModuleWithBank struct {
	Module    ExamModule `json:"module"`
	Questions []Question `json:"questions"`
}

// QuestionCount returns the total number of questions across all modules.
func (d *ExamDefinition) QuestionCount() int {
	n := 0
	for _, m := range d.Modules {
		n += len(m.Questions)
	}
	return n
}

// CreateExamVersionRequest is the payload for creating an exam version.
type CreateExamVersionRequest struct {
	Title string `json:"title" binding:"required,min=3,max=255"`
}

// AddModuleRequest is the payload for adding a module to a draft version.
type AddModuleRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=255"`
	Position        int    `json:"position" binding:"min=0"`
	DurationSeconds int    `json:"duration_seconds" binding:"required,min=30,max=14400"`
}
