package service

import (
	"time"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// ActiveWindowSeconds is the activity window opened by an ANSWER_SELECT or
// IDLE_END event. The client idle detector must use the same value; it is
// echoed to clients in the attempt snapshot so the two cannot drift.
const ActiveWindowSeconds = 15

// MetricEvent is the aggregator's view of one telemetry event: type plus
// server-assigned timestamp. Client timestamps are never consulted.
type MetricEvent struct {
	Type model.ItemEventType
	At   time.Time
}

// ComputeItemMetrics reduces a server-time-ordered event log into engagement
// metrics. Pure and replayable: the same log always yields the same metrics,
// which is why an unmatched trailing VIEW is closed at the last event's
// timestamp instead of "now".
func ComputeItemMetrics(events []MetricEvent) model.AttemptItemMetric {
	var m model.AttemptItemMetric
	if len(events) == 0 {
		return m
	}

	last := events[len(events)-1].At

	// VIEW/HIDE pairing for observed time. A VIEW while a view is already
	// open closes the previous span at the new VIEW; a stray HIDE is ignored.
	var observed time.Duration
	var viewOpen *time.Time

	// Merged activity windows. Events arrive ordered, so a new window either
	// extends the open one or starts fresh; IDLE_START truncates the open
	// window because the user stopped interacting before declaring idle.
	var active time.Duration
	var winStart, winEnd time.Time
	windowOpen := false

	flush := func() {
		if windowOpen {
			active += winEnd.Sub(winStart)
			windowOpen = false
		}
	}

	for _, e := range events {
		switch e.Type {
		case model.ItemEventView:
			if viewOpen != nil {
				observed += e.At.Sub(*viewOpen)
			}
			at := e.At
			viewOpen = &at
			m.ViewCount++

		case model.ItemEventHide:
			if viewOpen != nil {
				observed += e.At.Sub(*viewOpen)
				viewOpen = nil
			}

		case model.ItemEventAnswerSelect, model.ItemEventIdleEnd:
			end := e.At.Add(ActiveWindowSeconds * time.Second)
			if windowOpen && !e.At.After(winEnd) {
				if end.After(winEnd) {
					winEnd = end
				}
			} else {
				flush()
				winStart = e.At
				winEnd = end
				windowOpen = true
			}
			if e.Type == model.ItemEventAnswerSelect {
				m.AnswerChangeCount++
			}

		case model.ItemEventIdleStart:
			if windowOpen && winEnd.After(e.At) {
				winEnd = e.At
				if winEnd.Before(winStart) {
					winEnd = winStart
				}
			}
		}
	}

	if viewOpen != nil {
		observed += last.Sub(*viewOpen)
	}
	flush()

	m.ObservedSeconds = int(observed / time.Second)
	m.ActiveSeconds = int(active / time.Second)
	return m
}
