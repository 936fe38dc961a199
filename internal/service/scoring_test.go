package service

import (
	"testing"

	"github.com/google/uuid"
)

func TestScoreItems_SingleCorrectAnswer(t *testing.T) {
	moduleID := uuid.New()
	correct := uuid.New()
	item := ScorableItem{
		ItemID:           uuid.New(),
		ModuleID:         moduleID,
		Points:           1,
		SelectedOptionID: &correct,
		CorrectOptionID:  correct,
	}

	out := ScoreItems([]ScorableItem{item})

	if out.RawScore != 1 || out.MaxScore != 1 {
		t.Fatalf("got raw=%d max=%d, want 1/1", out.RawScore, out.MaxScore)
	}
	if len(out.Items) != 1 || !out.Items[0].IsCorrect || out.Items[0].PointsAwarded != 1 {
		t.Fatalf("unexpected item score: %+v", out.Items)
	}
	if len(out.Sections) != 1 || out.Sections[0].ModuleID != moduleID {
		t.Fatalf("unexpected sections: %+v", out.Sections)
	}
}

func TestScoreItems_WrongAndUnanswered(t *testing.T) {
	moduleID := uuid.New()
	correct := uuid.New()
	wrong := uuid.New()

	items := []ScorableItem{
		{ItemID: uuid.New(), ModuleID: moduleID, Points: 2, SelectedOptionID: &wrong, CorrectOptionID: correct},
		{ItemID: uuid.New(), ModuleID: moduleID, Points: 3, SelectedOptionID: nil, CorrectOptionID: correct},
	}

	out := ScoreItems(items)

	if out.RawScore != 0 {
		t.Errorf("raw score = %d, want 0", out.RawScore)
	}
	// Unanswered items still contribute to the max.
	if out.MaxScore != 5 {
		t.Errorf("max score = %d, want 5", out.MaxScore)
	}
	for i, s := range out.Items {
		if s.IsCorrect || s.PointsAwarded != 0 {
			t.Errorf("item %d: got %+v, want incorrect/0", i, s)
		}
	}
}

func TestScoreItems_SectionAggregation(t *testing.T) {
	verbal := uuid.New()
	numeric := uuid.New()
	correct := uuid.New()
	other := uuid.New()

	items := []ScorableItem{
		{ItemID: uuid.New(), ModuleID: verbal, Points: 1, SelectedOptionID: &correct, CorrectOptionID: correct},
		{ItemID: uuid.New(), ModuleID: verbal, Points: 2, SelectedOptionID: &other, CorrectOptionID: correct},
		{ItemID: uuid.New(), ModuleID: numeric, Points: 4, SelectedOptionID: &correct, CorrectOptionID: correct},
	}

	out := ScoreItems(items)

	if len(out.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(out.Sections))
	}
	// Sections keep first-seen item order.
	if out.Sections[0].ModuleID != verbal || out.Sections[1].ModuleID != numeric {
		t.Fatalf("unexpected section order: %+v", out.Sections)
	}
	if out.Sections[0].RawScore != 1 || out.Sections[0].MaxScore != 3 {
		t.Errorf("verbal section = %+v, want 1/3", out.Sections[0])
	}
	if out.Sections[1].RawScore != 4 || out.Sections[1].MaxScore != 4 {
		t.Errorf("numeric section = %+v, want 4/4", out.Sections[1])
	}
	if out.RawScore != 5 || out.MaxScore != 7 {
		t.Errorf("total = %d/%d, want 5/7", out.RawScore, out.MaxScore)
	}
}

func TestScoreItems_Deterministic(t *testing.T) {
	moduleID := uuid.New()
	correct := uuid.New()
	items := []ScorableItem{
		{ItemID: uuid.New(), ModuleID: moduleID, Points: 1, SelectedOptionID: &correct, CorrectOptionID: correct},
		{ItemID: uuid.New(), ModuleID: moduleID, Points: 1, CorrectOptionID: correct},
	}

	first := ScoreItems(items)
	second := ScoreItems(items)

	if first.RawScore != second.RawScore || first.MaxScore != second.MaxScore {
		t.Fatalf("scoring is not deterministic: %+v vs %+v", first, second)
	}
	for i := range first.Items {
		if first.Items[i] != second.Items[i] {
			t.Fatalf("item %d differs between runs", i)
		}
	}
}

func TestScoreItems_Empty(t *testing.T) {
	out := ScoreItems(nil)
	if out.RawScore != 0 || out.MaxScore != 0 || len(out.Items) != 0 || len(out.Sections) != 0 {
		t.Fatalf("empty input should score to zero: %+v", out)
	}
}
