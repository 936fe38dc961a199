package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ItemEventType enumerates behavioral telemetry event types.
type ItemEventType string

const (
	ItemEventView         ItemEventType = "VIEW"
	ItemEventHide         ItemEventType = "HIDE"
	ItemEventIdleStart    ItemEventType = "IDLE_START"
	ItemEventIdleEnd      ItemEventType = "IDLE_END"
	ItemEventAnswerSelect ItemEventType = "ANSWER_SELECT"
)

// Known reports whether t is a recognized event type.
func (t ItemEventType) Known() bool {
	switch t {
	case ItemEventView, ItemEventHide, ItemEventIdleStart, ItemEventIdleEnd, ItemEventAnswerSelect:
		return true
	}
	return false
}

// AttemptItemEvent is one row of the append-only telemetry log. ServerTime is
// assigned on insert and is the only timestamp the aggregator trusts;
// ClientTime and Metadata are opaque passthrough.
type AttemptItemEvent struct {
	ID            int64           `json:"id"`
	AttemptID     uuid.UUID       `json:"attempt_id"`
	AttemptItemID uuid.UUID       `json:"attempt_item_id"`
	EventType     ItemEventType   `json:"event_type"`
	ServerTime    time.Time       `json:"server_time"`
	ClientTime    *time.Time      `json:"client_time,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

// AttemptItemMetric is the derived engagement summary for one item. It is
// never authoritative and can be rebuilt from the event log at any time.
type AttemptItemMetric struct {
	AttemptItemID     uuid.UUID `json:"attempt_item_id"`
	ObservedSeconds   int       `json:"observed_seconds"`
	ActiveSeconds     int       `json:"active_seconds"`
	ViewCount         int       `json:"view_count"`
	AnswerChangeCount int       `json:"answer_change_count"`
}

// RecordTelemetryRequest is the payload for reporting one behavioral event.
type RecordTelemetryRequest struct {
	AttemptItemID uuid.UUID       `json:"attempt_item_id" binding:"required"`
	EventType     ItemEventType   `json:"event_type" binding:"required,oneof=VIEW HIDE IDLE_START IDLE_END ANSWER_SELECT"`
	ClientTime    *time.Time      `json:"client_time"`
	Metadata      json.RawMessage `json:"metadata"`
}
