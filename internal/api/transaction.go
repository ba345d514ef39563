package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vbank/internal/core"
)

// TransactionClient talks to the transaction service, which runs transfers
// in two phases: initiation creates a pending record, execution commits it
// by transaction id.
type TransactionClient struct {
	client
}

func NewTransactionClient(baseURL string, timeout time.Duration) *TransactionClient {
	return &TransactionClient{client: newClient(baseURL, timeout)}
}

// InitiationResult is phase one's outcome: the transaction id that phase
// two must present, plus the (non-terminal) status of the pending record.
type InitiationResult struct {
	TransactionID string
	Status        core.TransactionStatus
	Timestamp     time.Time
}

func (c *TransactionClient) InitiateTransfer(ctx context.Context, intent core.TransferIntent) (*InitiationResult, error) {
	req := struct {
		FromAccountID string      `json:"fromAccountId"`
		ToAccountID   string      `json:"toAccountId"`
		Amount        json.Number `json:"amount"`
		Description   string      `json:"description"`
	}{
		FromAccountID: intent.FromAccountID,
		ToAccountID:   intent.ToAccountID,
		Amount:        intent.Amount.Number(),
		Description:   intent.Description,
	}

	var payload struct {
		TransactionID string `json:"transactionId"`
		Status        string `json:"status"`
		Timestamp     string `json:"timestamp"`
	}
	if err := c.do(ctx, http.MethodPost, "/transactions/transfer/initiation", req, &payload); err != nil {
		return nil, err
	}
	if payload.TransactionID == "" {
		return nil, networkError(fmt.Errorf("initiation response carries no transaction id"))
	}
	return &InitiationResult{
		TransactionID: payload.TransactionID,
		Status:        core.TransactionStatus(payload.Status),
		Timestamp:     parseTimestamp(payload.Timestamp),
	}, nil
}

// ExecutionResult is phase two's outcome. Status is terminal.
type ExecutionResult struct {
	TransactionID string
	Status        core.TransactionStatus
	Timestamp     time.Time
}

func (c *TransactionClient) ExecuteTransfer(ctx context.Context, transactionID string) (*ExecutionResult, error) {
	req := struct {
		TransactionID string `json:"transactionId"`
	}{TransactionID: transactionID}

	var payload struct {
		TransactionID string `json:"transactionId"`
		Status        string `json:"status"`
		Timestamp     string `json:"timestamp"`
	}
	if err := c.do(ctx, http.MethodPost, "/transactions/transfer/execution", req, &payload); err != nil {
		return nil, err
	}
	return &ExecutionResult{
		TransactionID: payload.TransactionID,
		Status:        core.TransactionStatus(payload.Status),
		Timestamp:     parseTimestamp(payload.Timestamp),
	}, nil
}

type transactionPayload struct {
	TransactionID string      `json:"transactionId"`
	FromAccountID string      `json:"fromAccountId"`
	ToAccountID   string      `json:"toAccountId"`
	Amount        json.Number `json:"amount"`
	Description   string      `json:"description"`
	Timestamp     string      `json:"timestamp"`
	Status        string      `json:"status"`
}

func (c *TransactionClient) GetAccountTransactions(ctx context.Context, accountID string) ([]core.Transaction, error) {
	var payloads []transactionPayload
	if err := c.do(ctx, http.MethodGet, "/accounts/"+pathEscape(accountID)+"/transactions", nil, &payloads); err != nil {
		return nil, err
	}
	txs := make([]core.Transaction, 0, len(payloads))
	for _, p := range payloads {
		cents, err := core.ParseNumberToCents(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: parse amount %q: %w", p.TransactionID, p.Amount, err)
		}
		txs = append(txs, core.Transaction{
			TransactionID: p.TransactionID,
			FromAccountID: p.FromAccountID,
			ToAccountID:   p.ToAccountID,
			Amount:        core.Money{Cents: cents},
			Description:   p.Description,
			Timestamp:     parseTimestamp(p.Timestamp),
			Status:        core.TransactionStatus(p.Status),
		})
	}
	return txs, nil
}
