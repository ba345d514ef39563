// Package storage persists the client's local state in SQLite: the single
// session slot (who is signed in between runs) and the audit log written by
// the activity-event worker. Backend data is never cached here; accounts
// and transactions always come fresh from the services.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vbank/internal/session"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// AuditEvent is one row of the audit log, appended by the worker for every
// activity event it consumes.
type AuditEvent struct {
	ID         int64
	Kind       string
	UserID     string
	Detail     string
	OccurredAt time.Time
	RecordedAt time.Time
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSession replaces the session slot wholesale. There is at most one
// signed-in user per store.
func (r *Repository) SaveSession(ctx context.Context, s session.Session) error {
	if err := s.Require(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear previous session: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO session (slot, user_id, username) VALUES (1, ?, ?)`,
		s.UserID, s.Username); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session save: %w", err)
	}

	slog.InfoContext(ctx, "Session saved", "user_id", s.UserID, "username", s.Username)
	return nil
}

// LoadSession returns the persisted session, or a zero session and false
// when nobody is signed in.
func (r *Repository) LoadSession(ctx context.Context) (session.Session, bool, error) {
	var s session.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, username FROM session WHERE slot = 1`).
		Scan(&s.UserID, &s.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, false, nil
	}
	if err != nil {
		return session.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	return s, true, nil
}

func (r *Repository) ClearSession(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	slog.InfoContext(ctx, "Session cleared")
	return nil
}

func (r *Repository) AppendAuditEvent(ctx context.Context, e AuditEvent) (int64, error) {
	if e.Kind == "" {
		return 0, errors.New("audit event kind cannot be empty")
	}
	occurred := e.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events (kind, user_id, detail, occurred_at) VALUES (?, ?, ?, ?)`,
		e.Kind, e.UserID, e.Detail, occurred)
	if err != nil {
		return 0, fmt.Errorf("insert audit event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("audit event id: %w", err)
	}
	return id, nil
}

// ListAuditEvents returns the newest events first, up to limit.
func (r *Repository) ListAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, user_id, detail, occurred_at, recorded_at
		 FROM audit_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.Kind, &e.UserID, &e.Detail, &e.OccurredAt, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
