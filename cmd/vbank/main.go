// Command vbank is the terminal banking client. It signs in against the
// user service, keeps the session in a local SQLite store, and drives
// account, transfer and dashboard operations against the backend services.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"vbank/internal/api"
	"vbank/internal/cli"
	"vbank/internal/config"
	"vbank/internal/core"
	"vbank/internal/dashboard"
	applog "vbank/internal/log"
	"vbank/internal/notify"
	"vbank/internal/session"
	"vbank/internal/storage"
	"vbank/internal/transfer"
)

const usage = `Usage: vbank <command> [flags]

Commands:
  register        create a new user
  login           sign in and persist the session
  logout          clear the persisted session
  whoami          show the signed-in user
  accounts        list the signed-in user's accounts
  create-account  open a new account
  dashboard       show profile, accounts and recent transactions
  transfer        move money between two accounts
  chat            ask the AI assistant a question
  activity        show the local audit log
`

type app struct {
	logger  *applog.Logger
	cfg     *config.Config
	store   *storage.Repository
	users   *api.UserClient
	account *api.AccountClient
	tx      *api.TransactionClient
	agent   *api.AIAgentClient

	// publisher is nil when no broker is configured; activity events are
	// then simply not emitted.
	publisher *notify.AMQPClient
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentCLI)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	store := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer store.Close()

	a := &app{
		logger:  logger,
		cfg:     cfg,
		store:   store,
		users:   api.NewUserClient(cfg.UserServiceURL, cfg.RequestTimeout),
		account: api.NewAccountClient(cfg.AccountServiceURL, cfg.RequestTimeout),
		tx:      api.NewTransactionClient(cfg.TransactionServiceURL, cfg.RequestTimeout),
		agent:   api.NewAIAgentClient(cfg.AIAgentServiceURL, cfg.RequestTimeout),
	}

	if cfg.AMQPURL != "" {
		publisher, err := notify.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Broker unavailable, activity events disabled", "error", err)
		} else {
			a.publisher = publisher
			defer publisher.Close()
		}
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "register":
		err = a.register(ctx, os.Args[2:])
	case "login":
		err = a.login(ctx, os.Args[2:])
	case "logout":
		err = a.logout(ctx)
	case "whoami":
		err = a.whoami(ctx)
	case "accounts":
		err = a.listAccounts(ctx)
	case "create-account":
		err = a.createAccount(ctx, os.Args[2:])
	case "dashboard":
		err = a.showDashboard(ctx, os.Args[2:])
	case "transfer":
		err = a.transfer(ctx, os.Args[2:])
	case "chat":
		err = a.chat(ctx, os.Args[2:])
	case "activity":
		err = a.activity(ctx, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "vbank: %v\n", err)
		os.Exit(1)
	}
}

// requireSession loads the persisted session and fails when nobody is
// signed in.
func (a *app) requireSession(ctx context.Context) (session.Session, error) {
	s, ok, err := a.store.LoadSession(ctx)
	if err != nil {
		return session.Session{}, err
	}
	if !ok {
		return session.Session{}, session.ErrNotSignedIn
	}
	return s, nil
}

// publish emits an activity event when a broker is configured.
func (a *app) publish(ctx context.Context, kind, userID, detail string) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.PublishActivity(ctx, notify.NewActivityEvent(kind, userID, detail)); err != nil {
		a.logger.Warn("Activity publish failed", "event_kind", kind, "error", err)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	email := fs.String("email", "", "email address")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	fs.Parse(args)

	if *username == "" || *password == "" || *email == "" {
		return fmt.Errorf("register requires -username, -password and -email")
	}

	resp, err := a.users.Register(ctx, api.RegisterRequest{
		Username:  *username,
		Password:  *password,
		Email:     *email,
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		return describeAPIError("registration failed", err)
	}

	fmt.Printf("Registered %s (user id %s). You can now log in.\n", resp.Username, resp.UserID)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *username == "" || *password == "" {
		return fmt.Errorf("login requires -username and -password")
	}

	resp, err := a.users.Login(ctx, *username, *password)
	if err != nil {
		return describeAPIError("login failed", err)
	}

	s := session.Session{UserID: resp.UserID, Username: resp.Username}
	if err := a.store.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	a.publish(ctx, notify.EventLogin, s.UserID, "signed in from terminal client")
	fmt.Printf("Signed in as %s.\n", s.Username)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.store.ClearSession(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	s, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (user id %s)\n", s.Username, s.UserID)
	return nil
}

func (a *app) listAccounts(ctx context.Context) error {
	s, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	accounts, err := a.account.GetUserAccounts(ctx, s.UserID)
	if err != nil {
		return describeAPIError("list accounts failed", err)
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts yet. Use create-account to open one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tTYPE\tBALANCE\tID")
	for _, acc := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			acc.AccountNumber, acc.AccountType, acc.Balance.Format(), acc.AccountID)
	}
	return w.Flush()
}

func (a *app) createAccount(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-account", flag.ExitOnError)
	accountType := fs.String("type", string(core.Checking), "account type: SAVINGS or CHECKING")
	balance := fs.String("balance", "0.00", "initial balance, e.g. 100.50")
	fs.Parse(args)

	s, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	at := core.AccountType(*accountType)
	if at != core.Savings && at != core.Checking {
		return fmt.Errorf("account type must be %s or %s", core.Savings, core.Checking)
	}

	cents, err := core.ParseDecimalToCents(*balance)
	if err != nil {
		return fmt.Errorf("invalid initial balance %q", *balance)
	}

	resp, err := a.account.CreateAccount(ctx, s.UserID, at, core.Money{Cents: cents})
	if err != nil {
		return describeAPIError("account creation failed", err)
	}

	a.publish(ctx, notify.EventAccountCreated, s.UserID,
		fmt.Sprintf("opened %s account %s", at, resp.AccountNumber))
	fmt.Printf("Opened %s account %s (id %s).\n", at, resp.AccountNumber, resp.AccountID)
	return nil
}

func (a *app) showDashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	gatewayURL := fs.String("gateway", "", "fetch via the aggregation gateway instead of the services directly")
	fs.Parse(args)

	s, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	var snapshot *core.DashboardSnapshot
	if *gatewayURL != "" {
		bff := api.NewBFFClient(*gatewayURL+"/bff", a.cfg.RequestTimeout)
		snapshot, err = bff.GetDashboard(ctx, s.UserID)
	} else {
		agg := dashboard.NewAggregator(a.users, a.account, a.tx)
		snapshot, err = agg.Build(ctx, s.UserID)
	}
	if err != nil {
		return describeAPIError("dashboard fetch failed", err)
	}

	printDashboard(snapshot)
	return nil
}

func printDashboard(snapshot *core.DashboardSnapshot) {
	p := snapshot.Profile
	fmt.Printf("%s %s (@%s)\n", p.FirstName, p.LastName, p.Username)
	fmt.Printf("Total balance: %s across %d account(s)\n\n",
		snapshot.TotalBalance().Format(), len(snapshot.Accounts))

	for _, view := range snapshot.Accounts {
		acc := view.Account
		fmt.Printf("%s  %s  %s\n", acc.AccountNumber, acc.AccountType, acc.Balance.Format())
		if len(view.Transactions) == 0 {
			fmt.Println("  no transactions")
			continue
		}
		for _, tx := range view.Transactions {
			marker := "+"
			if tx.DirectionFor(acc.AccountID) == core.Outgoing {
				marker = "-"
			}
			fmt.Printf("  %s %s%s  %s  %s\n",
				tx.Timestamp.Format("2006-01-02 15:04"),
				marker, tx.Amount.Format(), tx.Status, tx.Description)
		}
	}
}

func (a *app) transfer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	from := fs.String("from", "", "source account id")
	to := fs.String("to", "", "destination account id")
	amount := fs.String("amount", "", "amount to move, e.g. 25.00")
	description := fs.String("description", "", "transfer description")
	fs.Parse(args)

	s, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	cents, err := core.ParseDecimalToCents(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q", *amount)
	}

	intent := core.TransferIntent{
		FromAccountID: *from,
		ToAccountID:   *to,
		Amount:        core.Money{Cents: cents},
		Description:   *description,
	}

	// Fetch the source balance so obviously doomed transfers are rejected
	// locally. Fetch failure just defers the funds check to the backend.
	var knownBalance *core.Money
	if account, err := a.account.GetAccount(ctx, *from); err == nil {
		knownBalance = &account.Balance
	}

	saga := transfer.NewSaga(a.tx, notify.WriterNotifier{W: os.Stdout})
	result := saga.Run(ctx, intent, knownBalance)

	// A transaction id means initiation went through, whatever happened after.
	if result.TransactionID != "" {
		a.publish(ctx, notify.EventTransferInitiated, s.UserID,
			fmt.Sprintf("transfer %s initiated for %s", result.TransactionID, intent.Amount.Format()))
	}

	switch result.State {
	case transfer.StateSucceeded:
		a.publish(ctx, notify.EventTransferCompleted, s.UserID,
			fmt.Sprintf("transfer %s for %s completed", result.TransactionID, intent.Amount.Format()))
		return nil
	default:
		a.publish(ctx, notify.EventTransferFailed, s.UserID,
			fmt.Sprintf("transfer of %s failed", intent.Amount.Format()))
		return result.Err
	}
}

func (a *app) chat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	message := fs.String("message", "", "question for the assistant")
	fs.Parse(args)

	if *message == "" {
		return fmt.Errorf("chat requires -message")
	}

	s, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	reply, err := a.agent.Chat(ctx, s.UserID, *message)
	if err != nil {
		return describeAPIError("assistant unavailable", err)
	}
	fmt.Println(reply.Message)
	return nil
}

func (a *app) activity(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("activity", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of entries to show")
	fs.Parse(args)

	events, err := a.store.ListAuditEvents(ctx, *limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("Audit log is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tKIND\tUSER\tDETAIL")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.OccurredAt.Format("2006-01-02 15:04:05"), e.Kind, e.UserID, e.Detail)
	}
	return w.Flush()
}

// describeAPIError keeps the backend's message visible when one exists.
func describeAPIError(prefix string, err error) error {
	if apiErr, ok := api.AsError(err); ok {
		if apiErr.IsNetwork() {
			return fmt.Errorf("%s: service unreachable", prefix)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("%s: %s", prefix, apiErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
