package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"vbank/internal/core"
	"vbank/internal/notify"
)

// dashboardResponse is the merged view served to clients. Amounts go out
// as plain decimal numbers, the same form the backend services use.
type dashboardResponse struct {
	UserID    string            `json:"userId"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Accounts  []accountResponse `json:"accounts"`
}

type accountResponse struct {
	AccountID     string                `json:"accountId"`
	AccountNumber string                `json:"accountNumber"`
	AccountType   string                `json:"accountType"`
	Balance       json.Number           `json:"balance"`
	Transactions  []transactionResponse `json:"transactions"`
}

type transactionResponse struct {
	TransactionID string      `json:"transactionId"`
	FromAccountID string      `json:"fromAccountId"`
	ToAccountID   string      `json:"toAccountId"`
	Amount        json.Number `json:"amount"`
	Description   string      `json:"description"`
	Timestamp     string      `json:"timestamp"`
	Status        string      `json:"status"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "userId is required")
		return
	}

	snapshot, cached := s.snapshotCache.Get(userID)
	if !cached {
		fresh, err := s.snapshots.Build(r.Context(), userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "Dashboard build failed",
				"user_id", userID, "error", err)
			writeUpstreamError(w, err)
			return
		}
		s.snapshotCache.Set(userID, fresh)
		snapshot = fresh
	} else {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "user_id", userID)
	}

	s.publishActivity(r, notify.EventDashboardServed, userID,
		fmt.Sprintf("dashboard served with %d accounts", len(snapshot.Accounts)))

	writeJSON(w, http.StatusOK, toDashboardResponse(snapshot))
}

type chatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "request body is not valid JSON")
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "userId and message are required")
		return
	}

	reply, err := s.chat.Chat(r.Context(), req.UserID, req.Message)
	if err != nil {
		slog.ErrorContext(r.Context(), "Chat request failed",
			"user_id", req.UserID, "error", err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// publishActivity emits an event unless no publisher is configured. A
// broker outage must never fail the request being served.
func (s *Server) publishActivity(r *http.Request, kind, userID, detail string) {
	if s.publisher == nil {
		return
	}
	event := notify.NewActivityEvent(kind, userID, detail)
	if err := s.publisher.PublishActivity(r.Context(), event); err != nil {
		slog.WarnContext(r.Context(), "Activity publish failed",
			"event_kind", kind, "user_id", userID, "error", err)
	}
}

func toDashboardResponse(snapshot *core.DashboardSnapshot) dashboardResponse {
	resp := dashboardResponse{
		UserID:    snapshot.Profile.UserID,
		Username:  snapshot.Profile.Username,
		Email:     snapshot.Profile.Email,
		FirstName: snapshot.Profile.FirstName,
		LastName:  snapshot.Profile.LastName,
		Accounts:  make([]accountResponse, 0, len(snapshot.Accounts)),
	}
	for _, view := range snapshot.Accounts {
		account := accountResponse{
			AccountID:     view.Account.AccountID,
			AccountNumber: view.Account.AccountNumber,
			AccountType:   string(view.Account.AccountType),
			Balance:       view.Account.Balance.Number(),
			Transactions:  make([]transactionResponse, 0, len(view.Transactions)),
		}
		for _, tx := range view.Transactions {
			account.Transactions = append(account.Transactions, transactionResponse{
				TransactionID: tx.TransactionID,
				FromAccountID: tx.FromAccountID,
				ToAccountID:   tx.ToAccountID,
				Amount:        tx.Amount.Number(),
				Description:   tx.Description,
				Timestamp:     tx.Timestamp.UTC().Format(time.RFC3339),
				Status:        string(tx.Status),
			})
		}
		resp.Accounts = append(resp.Accounts, account)
	}
	return resp
}
