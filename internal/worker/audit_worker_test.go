package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vbank/internal/notify"
	"vbank/internal/storage"
)

func newTestWorker(t *testing.T) *AuditWorker {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewAuditWorker(repo)
}

func TestHandleActivityEvent(t *testing.T) {
	w := newTestWorker(t)
	ctx := context.Background()

	event := &notify.ActivityEvent{
		Kind:      notify.EventTransferCompleted,
		UserID:    "user-1",
		Detail:    "transfer tx-1 completed",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := w.HandleActivityEvent(ctx, event); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	events, err := w.storage.ListAuditEvents(ctx, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(events))
	}
	got := events[0]
	if got.Kind != notify.EventTransferCompleted || got.UserID != "user-1" {
		t.Errorf("unexpected row: %+v", got)
	}
	if !got.OccurredAt.Equal(event.Timestamp) {
		t.Errorf("occurred_at should keep the event timestamp, got %v", got.OccurredAt)
	}
}

func TestHandleActivityEventRejectsMissingKind(t *testing.T) {
	w := newTestWorker(t)

	err := w.HandleActivityEvent(context.Background(), &notify.ActivityEvent{UserID: "user-1"})
	if err == nil {
		t.Fatal("event without kind must be rejected")
	}
}

func TestStartupReport(t *testing.T) {
	w := newTestWorker(t)
	ctx := context.Background()

	if err := w.StartupReport(ctx); err != nil {
		t.Fatalf("startup report on empty log: %v", err)
	}

	if err := w.HandleActivityEvent(ctx, notify.NewActivityEvent(notify.EventLogin, "user-1", "signed in")); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if err := w.StartupReport(ctx); err != nil {
		t.Fatalf("startup report after write: %v", err)
	}
}
