package core

import (
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionStatusIsTerminal(t *testing.T) {
	cases := []struct {
		status   TransactionStatus
		terminal bool
	}{
		{StatusPending, false},
		{StatusSuccess, true},
		{StatusFailed, true},
		{TransactionStatus("REVERSED"), true}, // unknown non-pending is still terminal
		{TransactionStatus(""), false},
	}
	for _, tc := range cases {
		if got := tc.status.IsTerminal(); got != tc.terminal {
			t.Fatalf("%q expected terminal=%v, got %v", tc.status, tc.terminal, got)
		}
	}
}

func TestTransactionDirectionFor(t *testing.T) {
	tx := Transaction{
		TransactionID: "t1",
		FromAccountID: "a",
		ToAccountID:   "b",
		Amount:        Money{Cents: 100},
		Timestamp:     time.Now(),
		Status:        StatusSuccess,
	}
	if got := tx.DirectionFor("a"); got != Outgoing {
		t.Fatalf("source account expected outgoing, got %v", got)
	}
	if got := tx.DirectionFor("b"); got != Incoming {
		t.Fatalf("destination account expected incoming, got %v", got)
	}
}

func TestDashboardSnapshotTotalBalance(t *testing.T) {
	snap := DashboardSnapshot{
		Accounts: []AccountView{
			{Account: Account{AccountID: "a", Balance: Money{Cents: 5000}}},
			{Account: Account{AccountID: "b", Balance: Money{Cents: 2550}}},
			{Account: Account{AccountID: "c", Balance: Money{Cents: 0}}},
		},
	}
	if got := snap.TotalBalance().Cents; got != 7550 {
		t.Fatalf("expected 7550, got %d", got)
	}

	// Empty snapshot sums to zero.
	if got := (DashboardSnapshot{}).TotalBalance().Cents; got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
