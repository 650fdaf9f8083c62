package audit

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Sink receives serialized audit events, typically a Kafka producer.
type Sink interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Worker consumes audit events from the publisher's inbox, persists them, and
// fans them out to an optional sink. It is the only background goroutine in
// the process and stops when its context is canceled.
type Worker struct {
	store  Store
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker builds a worker. sink may be nil when no broker is configured.
func NewWorker(store Store, sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

// Run processes events until ctx is canceled. Store failures are fatal to the
// worker; sink failures are logged and skipped so a broker outage does not
// stall the trail.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
			if w.sink == nil {
				continue
			}
			payload, err := json.Marshal(event)
			if err != nil {
				w.logger.ErrorContext(ctx, "failed to encode audit event",
					"reading_id", event.ReadingID,
					"error", err.Error(),
				)
				continue
			}
			if err := w.sink.Publish(ctx, event.DeviceID, payload); err != nil {
				w.logger.WarnContext(ctx, "failed to publish audit event",
					"reading_id", event.ReadingID,
					"error", err.Error(),
				)
			}
		}
	}
}
