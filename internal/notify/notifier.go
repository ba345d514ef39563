// Package notify is the side-effect boundary for user-visible outcomes and
// for the activity-event stream. Notifiers surface terminal results of an
// operation; the AMQP client carries structured activity events to the
// audit worker. Neither makes decisions.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Notifier surfaces exactly one terminal outcome per operation to the user.
type Notifier interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string)
}

// LogNotifier reports outcomes through slog.
type LogNotifier struct{}

func (LogNotifier) Success(ctx context.Context, message string) {
	slog.InfoContext(ctx, "Notification", "outcome", "success", "message", message)
}

func (LogNotifier) Failure(ctx context.Context, message string) {
	slog.WarnContext(ctx, "Notification", "outcome", "failure", "message", message)
}

// WriterNotifier prints outcomes to a stream; the terminal client uses it
// with stdout.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Success(ctx context.Context, message string) {
	fmt.Fprintf(n.W, "✓ %s\n", message)
}

func (n WriterNotifier) Failure(ctx context.Context, message string) {
	fmt.Fprintf(n.W, "✗ %s\n", message)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	Succeeded []string
	Failed    []string
}

func (r *Recorder) Success(ctx context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Succeeded = append(r.Succeeded, message)
}

func (r *Recorder) Failure(ctx context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed = append(r.Failed, message)
}

// Count returns the total number of notifications seen.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Succeeded) + len(r.Failed)
}
