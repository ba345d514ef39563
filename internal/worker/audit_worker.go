// Package worker consumes activity events from the broker and appends them
// to the local audit log.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"vbank/internal/notify"
	"vbank/internal/storage"
)

// AuditWorker turns activity events into audit log rows. Handler errors
// propagate to the consumer, which requeues the delivery.
type AuditWorker struct {
	storage *storage.Repository
}

func NewAuditWorker(storage *storage.Repository) *AuditWorker {
	return &AuditWorker{storage: storage}
}

// HandleActivityEvent processes one event from the queue.
func (w *AuditWorker) HandleActivityEvent(ctx context.Context, event *notify.ActivityEvent) error {
	if event.Kind == "" {
		return fmt.Errorf("activity event has no kind")
	}

	id, err := w.storage.AppendAuditEvent(ctx, storage.AuditEvent{
		Kind:       event.Kind,
		UserID:     event.UserID,
		Detail:     event.Detail,
		OccurredAt: event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}

	slog.InfoContext(ctx, "Audit event recorded",
		"id", id,
		"event_kind", event.Kind,
		"user_id", event.UserID)
	return nil
}

// StartupReport logs how many events are already in the audit log, a quick
// sanity signal that the database is reachable and migrated.
func (w *AuditWorker) StartupReport(ctx context.Context) error {
	events, err := w.storage.ListAuditEvents(ctx, 1)
	if err != nil {
		return fmt.Errorf("read audit log on startup: %w", err)
	}
	if len(events) == 0 {
		slog.InfoContext(ctx, "Audit log is empty")
		return nil
	}
	slog.InfoContext(ctx, "Audit log ready",
		"latest_id", events[0].ID,
		"latest_kind", events[0].Kind)
	return nil
}
