package websocket

import (
	"encoding/json"
	"time"
)

// MonitorEventType enumerates the events relayed to proctor monitors.
type MonitorEventType string

const (
	MonitorAttemptStarted MonitorEventType = "ATTEMPT_STARTED"
	MonitorAnswerRecorded MonitorEventType = "ANSWER_RECORDED"
	MonitorTimerUpdated   MonitorEventType = "TIMER_UPDATED"
	MonitorAttemptLocked  MonitorEventType = "ATTEMPT_LOCKED"
	MonitorAttemptResumed MonitorEventType = "ATTEMPT_RESUMED"
	MonitorAttemptAborted MonitorEventType = "ATTEMPT_ABORTED"
	MonitorAttemptScored  MonitorEventType = "ATTEMPT_SCORED"
)

// MonitorEvent is one message on an attempt's monitor channel. Published to
// Redis PubSub by the services and relayed verbatim to connected proctors,
// so a proctor can watch from any instance behind the load balancer.
type MonitorEvent struct {
	Type      MonitorEventType `json:"type"`
	AttemptID string           `json:"attempt_id"`
	At        time.Time        `json:"at"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
}
