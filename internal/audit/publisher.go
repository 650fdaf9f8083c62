package audit

import (
	"context"
	"time"
)

// DroppedCounter is bumped when the inbox is full and an event is discarded.
// The metrics package satisfies it.
type DroppedCounter interface {
	IncrementAuditEventsDropped()
}

// Publisher emits events onto a bounded inbox without blocking request
// handling. When the inbox is full the event is dropped and counted; the
// audit trail is best-effort by contract.
type Publisher struct {
	inbox   chan Event
	dropped DroppedCounter
}

// NewPublisher builds a publisher with the given inbox capacity.
func NewPublisher(capacity int, dropped DroppedCounter) *Publisher {
	if capacity <= 0 {
		capacity = 256
	}
	return &Publisher{inbox: make(chan Event, capacity), dropped: dropped}
}

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Emit enqueues the event, stamping the time if unset. Safe to call on a nil
// publisher so services can run without an audit trail in tests.
func (p *Publisher) Emit(_ context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case p.inbox <- event:
	default:
		if p.dropped != nil {
			p.dropped.IncrementAuditEventsDropped()
		}
	}
}
