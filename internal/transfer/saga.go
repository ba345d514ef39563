package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vbank/internal/api"
	"vbank/internal/core"
	"vbank/internal/notify"
)

// State is the saga's position in its lifecycle. SUCCEEDED and FAILED are
// terminal; a saga reaches exactly one of them and is then spent.
type State string

const (
	StateIdle       State = "IDLE"
	StateInitiating State = "INITIATING"
	StateInitiated  State = "INITIATED"
	StateExecuting  State = "EXECUTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

// ErrSagaConsumed is returned when a saga instance is run twice. Retrying a
// failed transfer requires a fresh intent and a fresh saga; silently
// resubmitting the same unexecuted intent could duplicate a transfer at the
// backend.
var ErrSagaConsumed = errors.New("transfer saga already ran; build a new one to retry")

// Service is the slice of the transaction client the saga needs.
type Service interface {
	InitiateTransfer(ctx context.Context, intent core.TransferIntent) (*api.InitiationResult, error)
	ExecuteTransfer(ctx context.Context, transactionID string) (*api.ExecutionResult, error)
}

// Result is the terminal outcome of one saga run.
type Result struct {
	State         State
	TransactionID string
	Err           error
}

// Saga drives one transfer through its two phases. Execution is only ever
// attempted with the transaction id obtained from a successful initiation;
// there is no code path from a failed or skipped phase one into phase two.
type Saga struct {
	service  Service
	notifier notify.Notifier

	state         State
	transactionID string
}

func NewSaga(service Service, notifier notify.Notifier) *Saga {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Saga{
		service:  service,
		notifier: notifier,
		state:    StateIdle,
	}
}

func (s *Saga) State() State { return s.state }

// TransactionID returns the id obtained from initiation, or "" before one
// exists.
func (s *Saga) TransactionID() string { return s.transactionID }

// Run validates the intent and, if admissible, performs initiate then
// execute. Every run ends in SUCCEEDED or FAILED and emits exactly one
// notification. knownBalance carries the caller's cached source balance,
// nil when unknown.
func (s *Saga) Run(ctx context.Context, intent core.TransferIntent, knownBalance *core.Money) Result {
	if s.state != StateIdle {
		return Result{State: s.state, TransactionID: s.transactionID, Err: ErrSagaConsumed}
	}

	if err := Validate(intent, knownBalance); err != nil {
		return s.fail(ctx, fmt.Sprintf("Transfer rejected: %s", err), err)
	}

	s.state = StateInitiating
	slog.InfoContext(ctx, "Initiating transfer",
		"from_account", intent.FromAccountID,
		"to_account", intent.ToAccountID,
		"amount", intent.Amount.DecimalString())

	initiation, err := s.service.InitiateTransfer(ctx, intent)
	if err != nil {
		// Phase one failed: no transaction exists, nothing to verify.
		return s.fail(ctx, failureMessage("Transfer failed", err), err)
	}

	s.transactionID = initiation.TransactionID
	s.state = StateInitiated

	// No confirmation step between phases; execution follows immediately.
	s.state = StateExecuting
	slog.InfoContext(ctx, "Executing transfer", "transaction_id", s.transactionID)

	execution, err := s.service.ExecuteTransfer(ctx, s.transactionID)
	if err != nil {
		// Phase two failed in flight: the backend's transaction state is
		// indeterminate. The user must verify before retrying; retrying
		// here would risk a duplicate transfer.
		return s.fail(ctx,
			failureMessage("Transfer not confirmed; verify your account before retrying", err), err)
	}

	if execution.Status != core.StatusSuccess {
		err := fmt.Errorf("transfer execution ended with status %s", execution.Status)
		return s.fail(ctx, "Transfer failed", err)
	}

	s.state = StateSucceeded
	s.notifier.Success(ctx, "Transfer completed successfully!")
	slog.InfoContext(ctx, "Transfer succeeded", "transaction_id", s.transactionID)
	return Result{State: StateSucceeded, TransactionID: s.transactionID}
}

func (s *Saga) fail(ctx context.Context, message string, err error) Result {
	s.state = StateFailed
	s.notifier.Failure(ctx, message)
	slog.WarnContext(ctx, "Transfer failed",
		"transaction_id", s.transactionID,
		"error", err)
	return Result{State: StateFailed, TransactionID: s.transactionID, Err: err}
}

// failureMessage prefers the backend's human-readable message when the
// error carries one.
func failureMessage(prefix string, err error) string {
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
		return fmt.Sprintf("%s: %s", prefix, apiErr.Message)
	}
	return prefix
}
