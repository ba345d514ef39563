package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vbank/internal/core"
)

// AccountClient talks to the account/ledger service.
type AccountClient struct {
	client
}

func NewAccountClient(baseURL string, timeout time.Duration) *AccountClient {
	return &AccountClient{client: newClient(baseURL, timeout)}
}

type CreateAccountResponse struct {
	AccountID     string `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	Message       string `json:"message"`
}

func (c *AccountClient) CreateAccount(ctx context.Context, userID string, accountType core.AccountType, initialBalance core.Money) (*CreateAccountResponse, error) {
	req := struct {
		UserID         string           `json:"userId"`
		AccountType    core.AccountType `json:"accountType"`
		InitialBalance json.Number      `json:"initialBalance"`
	}{UserID: userID, AccountType: accountType, InitialBalance: initialBalance.Number()}

	var resp CreateAccountResponse
	if err := c.do(ctx, http.MethodPost, "/accounts", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type accountPayload struct {
	AccountID     string      `json:"accountId"`
	UserID        string      `json:"userId"`
	AccountNumber string      `json:"accountNumber"`
	AccountType   string      `json:"accountType"`
	Balance       json.Number `json:"balance"`
	Status        string      `json:"status"`
	CreatedAt     string      `json:"createdAt"`
	UpdatedAt     string      `json:"updatedAt"`
}

func (p accountPayload) toAccount() (core.Account, error) {
	cents, err := core.ParseNumberToCents(p.Balance)
	if err != nil {
		return core.Account{}, fmt.Errorf("account %s: parse balance %q: %w", p.AccountID, p.Balance, err)
	}
	return core.Account{
		AccountID:     p.AccountID,
		UserID:        p.UserID,
		AccountNumber: p.AccountNumber,
		AccountType:   core.AccountType(p.AccountType),
		Balance:       core.Money{Cents: cents},
		Status:        p.Status,
		CreatedAt:     parseTimestamp(p.CreatedAt),
		UpdatedAt:     parseTimestamp(p.UpdatedAt),
	}, nil
}

func (c *AccountClient) GetAccount(ctx context.Context, accountID string) (*core.Account, error) {
	var payload accountPayload
	if err := c.do(ctx, http.MethodGet, "/accounts/"+pathEscape(accountID), nil, &payload); err != nil {
		return nil, err
	}
	account, err := payload.toAccount()
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *AccountClient) GetAccountByNumber(ctx context.Context, accountNumber string) (*core.Account, error) {
	var payload accountPayload
	if err := c.do(ctx, http.MethodGet, "/accounts/number/"+pathEscape(accountNumber), nil, &payload); err != nil {
		return nil, err
	}
	account, err := payload.toAccount()
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *AccountClient) GetUserAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	var payloads []accountPayload
	if err := c.do(ctx, http.MethodGet, "/users/"+pathEscape(userID)+"/accounts", nil, &payloads); err != nil {
		return nil, err
	}
	accounts := make([]core.Account, 0, len(payloads))
	for _, p := range payloads {
		account, err := p.toAccount()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
