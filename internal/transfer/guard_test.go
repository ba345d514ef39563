package transfer

import (
	"errors"
	"testing"

	"vbank/internal/core"
)

const (
	accountA = "7f0a8bd2-4c1e-4f6a-9b3d-111111111111"
	accountB = "7f0a8bd2-4c1e-4f6a-9b3d-222222222222"
)

func intent(from, to string, cents int64) core.TransferIntent {
	return core.TransferIntent{
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        core.Money{Cents: cents},
		Description:   "test",
	}
}

func TestValidate(t *testing.T) {
	balance := func(cents int64) *core.Money { return &core.Money{Cents: cents} }

	tests := []struct {
		name    string
		intent  core.TransferIntent
		balance *core.Money
		wantErr error
	}{
		{
			name:   "admissible without balance",
			intent: intent(accountA, accountB, 10000),
		},
		{
			name:    "admissible with sufficient balance",
			intent:  intent(accountA, accountB, 10000),
			balance: balance(10000),
		},
		{
			name:    "missing source",
			intent:  intent("", accountB, 100),
			wantErr: ErrInvalidSource,
		},
		{
			name:    "malformed source",
			intent:  intent("not-a-uuid", accountB, 100),
			wantErr: ErrInvalidSource,
		},
		{
			name:    "missing destination",
			intent:  intent(accountA, "", 100),
			wantErr: ErrInvalidDestination,
		},
		{
			name:    "self transfer",
			intent:  intent(accountA, accountA, 100),
			wantErr: ErrSameAccount,
		},
		{
			name:    "zero amount",
			intent:  intent(accountA, accountB, 0),
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:    "negative amount",
			intent:  intent(accountA, accountB, -100),
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:    "insufficient funds",
			intent:  intent(accountA, accountB, 10000),
			balance: balance(5000),
			wantErr: ErrInsufficientFunds,
		},
		{
			name:   "unknown balance defers funds check to backend",
			intent: intent(accountA, accountB, 10000),
		},
		{
			name:    "exact balance is admissible",
			intent:  intent(accountA, accountB, 5000),
			balance: balance(5000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.intent, tt.balance)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected admissible, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateOrderFirstFailureWins(t *testing.T) {
	// Self-transfer with a non-positive amount: the id checks run first,
	// then same-account, so ErrSameAccount must win over ErrNonPositiveAmount.
	err := Validate(intent(accountA, accountA, 0), nil)
	if !errors.Is(err, ErrSameAccount) {
		t.Fatalf("expected ErrSameAccount, got %v", err)
	}
}
