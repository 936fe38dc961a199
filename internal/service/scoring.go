package service

import (
	"github.com/google/uuid"
)

// ScorableItem is one attempt item joined with its answer and answer key,
// ready for grading.
type ScorableItem struct {
	ItemID           uuid.UUID
	ModuleID         uuid.UUID
	Points           int
	SelectedOptionID *uuid.UUID
	CorrectOptionID  uuid.UUID
}

// ItemScore is the grading result for one item.
type ItemScore struct {
	ItemID        uuid.UUID
	IsCorrect     bool
	PointsAwarded int
}

// SectionScore aggregates one module's items.
type SectionScore struct {
	ModuleID uuid.UUID
	RawScore int
	MaxScore int
}

// ScoreOutcome is the full grading result for an attempt.
type ScoreOutcome struct {
	Items    []ItemScore
	Sections []SectionScore
	RawScore int
	MaxScore int
}

// ScoreItems grades an attempt. Pure and deterministic: an item earns its full
// point value when the stored selection equals the single correct option,
// zero otherwise. Unanswered items score zero but still contribute their
// points to the max. Sections appear in first-seen item order.
func ScoreItems(items []ScorableItem) ScoreOutcome {
	outcome := ScoreOutcome{
		Items: make([]ItemScore, 0, len(items)),
	}

	sectionIdx := make(map[uuid.UUID]int)

	for _, it := range items {
		correct := it.SelectedOptionID != nil && *it.SelectedOptionID == it.CorrectOptionID

		awarded := 0
		if correct {
			awarded = it.Points
		}
		outcome.Items = append(outcome.Items, ItemScore{
			ItemID:        it.ItemID,
			IsCorrect:     correct,
			PointsAwarded: awarded,
		})

		idx, ok := sectionIdx[it.ModuleID]
		if !ok {
			idx = len(outcome.Sections)
			sectionIdx[it.ModuleID] = idx
			outcome.Sections = append(outcome.Sections, SectionScore{ModuleID: it.ModuleID})
		}
		outcome.Sections[idx].RawScore += awarded
		outcome.Sections[idx].MaxScore += it.Points

		outcome.RawScore += awarded
		outcome.MaxScore += it.Points
	}

	return outcome
}
