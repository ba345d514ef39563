// Package dashboard merges per-service data into one consistent snapshot:
// the user's profile, their accounts, and each account's recent
// transactions. The snapshot is rebuilt wholesale on every call.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"vbank/internal/core"
)

type ProfileFetcher interface {
	GetProfile(ctx context.Context, userID string) (*core.Profile, error)
}

type AccountLister interface {
	GetUserAccounts(ctx context.Context, userID string) ([]core.Account, error)
}

type TransactionFetcher interface {
	GetAccountTransactions(ctx context.Context, accountID string) ([]core.Transaction, error)
}

// Aggregator fans out to the user, account and transaction services and
// assembles a DashboardSnapshot.
type Aggregator struct {
	profiles     ProfileFetcher
	accounts     AccountLister
	transactions TransactionFetcher
}

func NewAggregator(profiles ProfileFetcher, accounts AccountLister, transactions TransactionFetcher) *Aggregator {
	return &Aggregator{
		profiles:     profiles,
		accounts:     accounts,
		transactions: transactions,
	}
}

// Build produces a fresh snapshot for one user.
//
// The profile and account-list fetches are both required: either failing
// fails the snapshot. Per-account transaction fetches run concurrently and
// are individually optional; a failed fetch degrades that account to an
// empty transaction list. Results are combined by account identity, never
// by arrival order.
func (a *Aggregator) Build(ctx context.Context, userID string) (*core.DashboardSnapshot, error) {
	var (
		profile  *core.Profile
		accounts []core.Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := a.profiles.GetProfile(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		list, err := a.accounts.GetUserAccounts(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch accounts: %w", err)
		}
		accounts = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// One slot per account, filled concurrently, so the account-list
	// order survives regardless of which fetch returns first.
	views := make([]core.AccountView, len(accounts))

	var fanout errgroup.Group
	for i, account := range accounts {
		fanout.Go(func() error {
			txs, err := a.transactions.GetAccountTransactions(ctx, account.AccountID)
			if err != nil {
				slog.WarnContext(ctx, "Transaction fetch failed, degrading account to empty history",
					"account_id", account.AccountID,
					"error", err)
				txs = nil
			}
			sort.SliceStable(txs, func(x, y int) bool {
				return txs[x].Timestamp.After(txs[y].Timestamp)
			})
			views[i] = core.AccountView{Account: account, Transactions: txs}
			return nil
		})
	}
	// Fan-out errors are absorbed above; Wait only synchronizes.
	_ = fanout.Wait()

	snapshot := &core.DashboardSnapshot{
		Profile:   *profile,
		Accounts:  views,
		FetchedAt: time.Now(),
	}

	slog.InfoContext(ctx, "Dashboard snapshot assembled",
		"user_id", userID,
		"accounts", len(views),
		"total_balance", snapshot.TotalBalance().DecimalString())

	return snapshot, nil
}
