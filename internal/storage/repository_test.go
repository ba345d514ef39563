package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vbank/internal/session"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "vbank.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSessionRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, ok, err := repo.LoadSession(ctx); err != nil || ok {
		t.Fatalf("fresh store should have no session (ok=%v err=%v)", ok, err)
	}

	s := session.Session{UserID: "user-1", Username: "alice"}
	if err := repo.SaveSession(ctx, s); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, ok, err := repo.LoadSession(ctx)
	if err != nil || !ok {
		t.Fatalf("load session: ok=%v err=%v", ok, err)
	}
	if loaded != s {
		t.Fatalf("expected %+v, got %+v", s, loaded)
	}
}

func TestSessionReplacedWholesale(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.SaveSession(ctx, session.Session{UserID: "user-1", Username: "alice"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveSession(ctx, session.Session{UserID: "user-2", Username: "bob"}); err != nil {
		t.Fatalf("save second: %v", err)
	}

	loaded, ok, err := repo.LoadSession(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if loaded.UserID != "user-2" || loaded.Username != "bob" {
		t.Fatalf("second login must replace the slot, got %+v", loaded)
	}
}

func TestClearSession(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.SaveSession(ctx, session.Session{UserID: "user-1", Username: "alice"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.ClearSession(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := repo.LoadSession(ctx); ok {
		t.Fatal("session should be gone after logout")
	}
}

func TestSaveSessionRejectsZeroSession(t *testing.T) {
	repo := newTestRepository(t)
	if err := repo.SaveSession(context.Background(), session.Session{}); err == nil {
		t.Fatal("expected error for unauthenticated session")
	}
}

func TestAuditEvents(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, kind := range []string{"login", "transfer_initiated", "transfer_completed"} {
		if _, err := repo.AppendAuditEvent(ctx, AuditEvent{
			Kind:       kind,
			UserID:     "user-1",
			Detail:     "detail for " + kind,
			OccurredAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("append %s: %v", kind, err)
		}
	}

	events, err := repo.ListAuditEvents(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != "transfer_completed" {
		t.Fatalf("expected newest first, got %s", events[0].Kind)
	}

	if _, err := repo.AppendAuditEvent(ctx, AuditEvent{}); err == nil {
		t.Fatal("expected error for empty kind")
	}
}
