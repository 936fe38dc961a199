package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

func validModule(questions int) model.ModuleWithBank {
	m := model.ModuleWithBank{
		Module: model.ExamModule{
			ID:              uuid.New(),
			Title:           "Module",
			DurationSeconds: 600,
		},
	}
	for i := 0; i < questions; i++ {
		q := model.Question{
			ID:       uuid.New(),
			ModuleID: m.Module.ID,
			Points:   1,
		}
		for j := 0; j < 3; j++ {
			q.Options = append(q.Options, model.QuestionOption{
				ID:         uuid.New(),
				QuestionID: q.ID,
				Position:   j,
			})
		}
		correct := q.Options[1].ID
		q.CorrectOptionID = &correct
		m.Questions = append(m.Questions, q)
	}
	return m
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.ExamDefinition)
		wantErr error
	}{
		{
			name:   "valid definition passes",
			mutate: func(d *model.ExamDefinition) {},
		},
		{
			name: "no modules",
			mutate: func(d *model.ExamDefinition) {
				d.Modules = nil
			},
			wantErr: ErrExamEmpty,
		},
		{
			name: "module without questions",
			mutate: func(d *model.ExamDefinition) {
				d.Modules = append(d.Modules, validModule(0))
			},
			wantErr: ErrExamEmpty,
		},
		{
			name: "question with one option",
			mutate: func(d *model.ExamDefinition) {
				d.Modules[0].Questions[0].Options = d.Modules[0].Questions[0].Options[:1]
			},
			wantErr: ErrExamInvalid,
		},
		{
			name: "question without correct option",
			mutate: func(d *model.ExamDefinition) {
				d.Modules[0].Questions[0].CorrectOptionID = nil
			},
			wantErr: ErrExamInvalid,
		},
		{
			name: "correct option from another question",
			mutate: func(d *model.ExamDefinition) {
				foreign := uuid.New()
				d.Modules[0].Questions[0].CorrectOptionID = &foreign
			},
			wantErr: ErrExamInvalid,
		},
		{
			name: "module without duration",
			mutate: func(d *model.ExamDefinition) {
				d.Modules[0].Module.DurationSeconds = 0
			},
			wantErr: ErrExamInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := &model.ExamDefinition{
				ExamVersion: model.ExamVersion{ID: uuid.New(), Status: model.ExamVersionStatusDraft},
				Modules:     []model.ModuleWithBank{validModule(2), validModule(1)},
			}
			tt.mutate(def)

			err := validateDefinition(def)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
