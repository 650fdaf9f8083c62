// Package audit captures an append-only trail of ingestion events. Events are
// emitted from domain logic, buffered on a channel, and persisted (plus
// optionally published to Kafka) by a background worker.
package audit

import (
	"context"
	"time"
)

// Actions recorded on the trail.
const (
	ActionReadingRecorded = "reading.recorded"
	ActionReadingCritical = "reading.critical"
)

// Event is one entry on the audit trail. Keep it transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	DeviceID  string    `json:"device_id"`
	ReadingID string    `json:"reading_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDevice(ctx context.Context, deviceID string) ([]Event, error)
}
