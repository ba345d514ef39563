// Package transfer implements the money-transfer orchestration: the
// precondition guard that runs before any network call, and the two-phase
// initiate/execute saga.
package transfer

import (
	"errors"

	"github.com/google/uuid"

	"vbank/internal/core"
)

var (
	ErrInvalidSource      = errors.New("source account id is missing or malformed")
	ErrInvalidDestination = errors.New("destination account id is missing or malformed")
	ErrSameAccount        = errors.New("cannot transfer to the same account")
	ErrNonPositiveAmount  = errors.New("amount must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

// Validate runs the precondition checks for a transfer intent, in order,
// first failure wins. It performs no I/O and is purely advisory: the
// backend remains the authority on funds, since knownBalance is a cached
// value with no freshness guarantee. Pass knownBalance as nil when the
// source account's balance is unknown; the funds check is then left to the
// backend.
func Validate(intent core.TransferIntent, knownBalance *core.Money) error {
	if !isWellFormedID(intent.FromAccountID) {
		return ErrInvalidSource
	}
	if !isWellFormedID(intent.ToAccountID) {
		return ErrInvalidDestination
	}
	if intent.FromAccountID == intent.ToAccountID {
		return ErrSameAccount
	}
	if intent.Amount.Cents <= 0 {
		return ErrNonPositiveAmount
	}
	if knownBalance != nil && intent.Amount.Cents > knownBalance.Cents {
		return ErrInsufficientFunds
	}
	return nil
}

// Account ids are UUIDs everywhere in the system.
func isWellFormedID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
