package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vbank/internal/core"
)

func TestAccountClient_GetAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/acc-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"accountId": "acc-1",
			"userId": "user-1",
			"accountNumber": "ACC-0001",
			"accountType": "SAVINGS",
			"balance": 100.5,
			"status": "ACTIVE",
			"createdAt": "2025-01-02T03:04:05Z",
			"updatedAt": "2025-01-02T03:04:05Z"
		}`))
	}))
	defer srv.Close()

	c := NewAccountClient(srv.URL, 5*time.Second)
	account, err := c.GetAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if account.Balance.Cents != 10050 {
		t.Errorf("expected balance 10050 cents, got %d", account.Balance.Cents)
	}
	if account.AccountType != core.Savings {
		t.Errorf("expected SAVINGS, got %s", account.AccountType)
	}
	if account.CreatedAt.IsZero() {
		t.Errorf("expected parsed createdAt")
	}
}

func TestAccountClient_GetUserAccounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/user-1/accounts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"accountId": "a", "accountNumber": "N1", "accountType": "SAVINGS", "balance": 50, "status": "ACTIVE"},
			{"accountId": "b", "accountNumber": "N2", "accountType": "CHECKING", "balance": 0.01, "status": "ACTIVE"}
		]`))
	}))
	defer srv.Close()

	c := NewAccountClient(srv.URL, 5*time.Second)
	accounts, err := c.GetUserAccounts(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Balance.Cents != 5000 || accounts[1].Balance.Cents != 1 {
		t.Errorf("unexpected balances: %d, %d", accounts[0].Balance.Cents, accounts[1].Balance.Cents)
	}
}

func TestAccountClient_GetUserAccountsZeroBalance(t *testing.T) {
	// Freshly opened accounts carry a balance of exactly 0; decoding must
	// not treat that as a malformed amount.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"accountId": "a", "accountNumber": "N1", "accountType": "SAVINGS", "balance": 0, "status": "ACTIVE"},
			{"accountId": "b", "accountNumber": "N2", "accountType": "CHECKING", "balance": 100.5, "status": "ACTIVE"}
		]`))
	}))
	defer srv.Close()

	c := NewAccountClient(srv.URL, 5*time.Second)
	accounts, err := c.GetUserAccounts(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Balance.Cents != 0 || accounts[1].Balance.Cents != 10050 {
		t.Errorf("unexpected balances: %d, %d", accounts[0].Balance.Cents, accounts[1].Balance.Cents)
	}
}

func TestClient_ServerErrorBodyPropagated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(Error{
			Status:  400,
			Code:    "INSUFFICIENT_FUNDS",
			Message: "Insufficient funds in source account",
		})
	}))
	defer srv.Close()

	c := NewTransactionClient(srv.URL, 5*time.Second)
	_, err := c.ExecuteTransfer(context.Background(), "tx-1")
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.Status != 400 || apiErr.Code != "INSUFFICIENT_FUNDS" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if apiErr.IsNetwork() {
		t.Error("server-rejected error must not look like a network error")
	}
}

func TestClient_UnparseableErrorBodyKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := NewUserClient(srv.URL, 5*time.Second)
	_, err := c.Login(context.Background(), "alice", "pw")
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", apiErr.Status)
	}
	if apiErr.IsNetwork() {
		t.Error("a reachable backend must not be reported as unreachable")
	}
}

func TestClient_TransportErrorSynthesized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewUserClient(srv.URL, time.Second)
	_, err := c.Login(context.Background(), "alice", "pw")
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if !apiErr.IsNetwork() {
		t.Errorf("expected network error, got status %d", apiErr.Status)
	}
	if apiErr.Status != NetworkStatus {
		t.Errorf("network errors must carry status %d, got %d", NetworkStatus, apiErr.Status)
	}
}

func TestTransactionClient_InitiateTransfer(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions/transfer/initiation" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"transactionId": "tx-9", "status": "PENDING", "timestamp": "2025-01-02T03:04:05Z"}`))
	}))
	defer srv.Close()

	c := NewTransactionClient(srv.URL, 5*time.Second)
	result, err := c.InitiateTransfer(context.Background(), core.TransferIntent{
		FromAccountID: "a",
		ToAccountID:   "b",
		Amount:        core.Money{Cents: 10000},
		Description:   "rent",
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if result.TransactionID != "tx-9" || result.Status != core.StatusPending {
		t.Errorf("unexpected result: %+v", result)
	}
	if gotBody["amount"] != json.Number("100.00") {
		t.Errorf("amount should be sent as decimal number, got %v", gotBody["amount"])
	}
}

func TestTransactionClient_InitiateTransferMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "PENDING"}`))
	}))
	defer srv.Close()

	c := NewTransactionClient(srv.URL, 5*time.Second)
	_, err := c.InitiateTransfer(context.Background(), core.TransferIntent{
		FromAccountID: "a", ToAccountID: "b", Amount: core.Money{Cents: 100},
	})
	if err == nil {
		t.Fatal("an initiation response without a transaction id must fail")
	}
}

func TestBFFClient_GetDashboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/user-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"userId": "user-1", "username": "alice", "email": "a@b.c",
			"firstName": "Alice", "lastName": "Smith",
			"accounts": [
				{"accountId": "a", "accountNumber": "N1", "accountType": "SAVINGS", "balance": 100.5,
				 "transactions": [{"transactionId": "t1", "fromAccountId": "a", "toAccountId": "b",
				                   "amount": 25, "status": "SUCCESS", "timestamp": "2025-01-02T03:04:05Z"}]},
				{"accountId": "b", "accountNumber": "N2", "accountType": "CHECKING", "balance": 12.25,
				 "transactions": []}
			]
		}`))
	}))
	defer srv.Close()

	c := NewBFFClient(srv.URL, 5*time.Second)
	snap, err := c.GetDashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(snap.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(snap.Accounts))
	}
	if got := snap.TotalBalance().Cents; got != 11275 {
		t.Errorf("expected total 11275 cents, got %d", got)
	}
	if len(snap.Accounts[0].Transactions) != 1 {
		t.Errorf("expected 1 transaction under first account")
	}
}

func TestErrorUnwrapsThroughWrapping(t *testing.T) {
	inner := &Error{Status: 404, Code: "NOT_FOUND", Message: "no such account"}
	wrapped := fmt.Errorf("fetch account: %w", inner)

	apiErr, ok := AsError(wrapped)
	if !ok || apiErr.Status != 404 {
		t.Fatalf("expected unwrapped 404, got %v / %v", apiErr, ok)
	}
}
