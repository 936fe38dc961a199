package model

import (
	"github.com/google/uuid"
)

// Question is a single-choice question inside an exam module. Exactly one
// option is correct; publish validation enforces it.
type Question struct {
	ID              uuid.UUID        `json:"id"`
	ModuleID        uuid.UUID        `json:"module_id"`
	QuestionText    string           `json:"question_text"`
	Position        int              `json:"position"`
	Points          int              `json:"points"`
	Options         []QuestionOption `json:"options"`
	CorrectOptionID *uuid.UUID       `json:"correct_option_id,omitempty"`
}

// QuestionOption is one selectable choice.
type QuestionOption struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Label      string    `json:"label"`
	Position   int       `json:"position"`
}

// AddQuestionRequest is the payload for adding a question to a draft module.
type AddQuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=4000"`
	Position      int      `json:"position" binding:"min=0"`
	Points        int      `json:"points" binding:"required,min=1,max=100"`
	Options       []string `json:"options" binding:"required,min=2,max=10,dive,required,max=1000"`
	CorrectOption int      `json:"correct_option" binding:"min=0"`
}

// ReplaceQuestionsRequest bulk-replaces a module's questions.
type ReplaceQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"required,dive"`
}
