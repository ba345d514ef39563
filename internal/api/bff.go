package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vbank/internal/core"
)

// BFFClient talks to the aggregation gateway, which serves a pre-merged
// dashboard and fronts the AI assistant.
type BFFClient struct {
	client
}

func NewBFFClient(baseURL string, timeout time.Duration) *BFFClient {
	return &BFFClient{client: newClient(baseURL, timeout)}
}

type dashboardPayload struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Accounts  []struct {
		AccountID     string               `json:"accountId"`
		AccountNumber string               `json:"accountNumber"`
		AccountType   string               `json:"accountType"`
		Balance       json.Number          `json:"balance"`
		Transactions  []transactionPayload `json:"transactions"`
	} `json:"accounts"`
}

func (c *BFFClient) GetDashboard(ctx context.Context, userID string) (*core.DashboardSnapshot, error) {
	var payload dashboardPayload
	if err := c.do(ctx, http.MethodGet, "/dashboard/"+pathEscape(userID), nil, &payload); err != nil {
		return nil, err
	}

	snapshot := &core.DashboardSnapshot{
		Profile: core.Profile{
			UserID:    payload.UserID,
			Username:  payload.Username,
			Email:     payload.Email,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
		},
		FetchedAt: time.Now(),
	}
	for _, a := range payload.Accounts {
		cents, err := core.ParseNumberToCents(a.Balance)
		if err != nil {
			return nil, fmt.Errorf("account %s: parse balance %q: %w", a.AccountID, a.Balance, err)
		}
		view := core.AccountView{
			Account: core.Account{
				AccountID:     a.AccountID,
				UserID:        payload.UserID,
				AccountNumber: a.AccountNumber,
				AccountType:   core.AccountType(a.AccountType),
				Balance:       core.Money{Cents: cents},
			},
		}
		for _, p := range a.Transactions {
			txCents, err := core.ParseNumberToCents(p.Amount)
			if err != nil {
				return nil, fmt.Errorf("transaction %s: parse amount %q: %w", p.TransactionID, p.Amount, err)
			}
			view.Transactions = append(view.Transactions, core.Transaction{
				TransactionID: p.TransactionID,
				FromAccountID: p.FromAccountID,
				ToAccountID:   p.ToAccountID,
				Amount:        core.Money{Cents: txCents},
				Description:   p.Description,
				Timestamp:     parseTimestamp(p.Timestamp),
				Status:        core.TransactionStatus(p.Status),
			})
		}
		snapshot.Accounts = append(snapshot.Accounts, view)
	}
	return snapshot, nil
}

type ChatResponse struct {
	Message string `json:"message"`
}

func (c *BFFClient) Chat(ctx context.Context, userID, message string) (*ChatResponse, error) {
	req := struct {
		UserID  string `json:"userId"`
		Message string `json:"message"`
	}{UserID: userID, Message: message}

	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
