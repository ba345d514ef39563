package core

import (
	"errors"
	"time"
)

const (
	Savings  AccountType = "SAVINGS"
	Checking AccountType = "CHECKING"
)

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

const (
	Incoming Direction = "incoming"
	Outgoing Direction = "outgoing"
)

type (
	AccountType       string
	TransactionStatus string
	Direction         string

	Money struct {
		Cents int64
	}

	Account struct {
		AccountID     string
		UserID        string
		AccountNumber string
		AccountType   AccountType
		Balance       Money
		Status        string
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	Transaction struct {
		TransactionID string
		FromAccountID string
		ToAccountID   string
		Amount        Money
		Description   string
		Timestamp     time.Time
		Status        TransactionStatus
	}

	// TransferIntent is the client-local input of one transfer attempt.
	// It lives for a single saga run and is never persisted.
	TransferIntent struct {
		FromAccountID string
		ToAccountID   string
		Amount        Money
		Description   string
	}

	Profile struct {
		UserID    string
		Username  string
		Email     string
		FirstName string
		LastName  string
		CreatedAt time.Time
		IsActive  bool
	}

	// AccountView is one account of a dashboard snapshot together with
	// its fetched transaction history, newest first.
	AccountView struct {
		Account      Account
		Transactions []Transaction
	}

	// DashboardSnapshot is rebuilt wholesale on every refresh. It is never
	// patched incrementally, so each snapshot is internally consistent with
	// a single fetch.
	DashboardSnapshot struct {
		Profile   Profile
		Accounts  []AccountView
		FetchedAt time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsTerminal reports whether a status ends a transaction's lifecycle.
// Anything the backend reports other than PENDING is terminal.
func (s TransactionStatus) IsTerminal() bool {
	return s != StatusPending && s != ""
}

// DirectionFor classifies the transaction as seen from one account.
// The same transaction is outgoing under its source account and incoming
// under its destination account.
func (t Transaction) DirectionFor(accountID string) Direction {
	if t.FromAccountID == accountID {
		return Outgoing
	}
	return Incoming
}

// TotalBalance is derived from the snapshot's own account list and must be
// recomputed per snapshot, never cached across refreshes.
func (s DashboardSnapshot) TotalBalance() Money {
	var total int64
	for _, a := range s.Accounts {
		total += a.Account.Balance.Cents
	}
	return Money{Cents: total}
}
