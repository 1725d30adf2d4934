// Package service holds the front-end's banking workflows: building the
// dashboard, sending payments, depositing external funds and signing in.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bankdemo/frontend/internal/auth"
	"github.com/bankdemo/frontend/internal/metrics"
	"github.com/bankdemo/frontend/internal/middleware"
	"github.com/bankdemo/frontend/internal/model"
)

// Service errors.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrBalanceUnavailable = errors.New("balance unavailable")
	ErrLoginFailed        = errors.New("login failed")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidAccount     = errors.New("account number and routing number are required")
)

// Transaction kinds used in metrics.
const (
	KindPayment = "payment"
	KindDeposit = "deposit"
)

// Transaction results used in metrics.
const (
	ResultSubmitted    = "submitted"
	ResultInsufficient = "insufficient_funds"
	ResultFailed       = "failed"
)

// SubmissionError reports that the transaction service did not accept a
// transaction. The transaction may or may not have been applied.
type SubmissionError struct {
	Kind string
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s submission failed: %v", e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Backend is the subset of the backend client the bank workflows need.
type Backend interface {
	Balance(ctx context.Context, token string) (int64, error)
	History(ctx context.Context, token string) ([]model.HistoryEntry, error)
	Contacts(ctx context.Context, token string) ([]model.Contact, error)
	ExternalAccounts(ctx context.Context, token string) ([]model.Contact, error)
	Token(ctx context.Context, username, password string) (string, error)
	SubmitTransaction(ctx context.Context, token string, tx model.TransactionRequest) error
}

// TokenVerifier verifies a freshly issued session token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// BankConfig holds the dependencies of a Bank.
type BankConfig struct {
	Backend         Backend
	Verifier        TokenVerifier
	LocalRoutingNum string
	Metrics         metrics.Recorder
	Logger          *slog.Logger
}

// Bank runs the user-facing workflows against the backend services.
type Bank struct {
	backend    Backend
	verifier   TokenVerifier
	routingNum string
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// NewBank creates a Bank.
func NewBank(cfg BankConfig) *Bank {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Bank{
		backend:    cfg.Backend,
		verifier:   cfg.Verifier,
		routingNum: cfg.LocalRoutingNum,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// PaymentInput is a payment to another account at this bank.
type PaymentInput struct {
	Recipient string
	Amount    int64
}

// DepositInput is a deposit from an external account into the user's account.
type DepositInput struct {
	From   model.ExternalAccount
	Amount int64
}

// Session is an issued, verified session token.
type Session struct {
	Token  string
	MaxAge int
}

// Dashboard collects the home page data. The four backend reads run
// concurrently and fail independently: a failed read leaves its section
// empty (Balance nil) and is logged by the backend client.
func (b *Bank) Dashboard(ctx context.Context, token string, claims *auth.Claims) model.Dashboard {
	d := model.Dashboard{
		Name:       claims.Name,
		AccountNum: claims.Account,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if balance, err := b.backend.Balance(gctx, token); err == nil {
			d.Balance = &balance
		}
		return nil
	})
	g.Go(func() error {
		if history, err := b.backend.History(gctx, token); err == nil {
			d.History = history
		}
		return nil
	})
	g.Go(func() error {
		if contacts, err := b.backend.Contacts(gctx, token); err == nil {
			d.Contacts = contacts
		}
		return nil
	})
	g.Go(func() error {
		if accounts, err := b.backend.ExternalAccounts(gctx, token); err == nil {
			d.ExternalAccounts = accounts
		}
		return nil
	})
	_ = g.Wait()

	return d
}

// Pay sends a payment from the signed-in account when its balance exceeds
// the amount. The sender always comes from the verified claims.
func (b *Bank) Pay(ctx context.Context, token string, claims *auth.Claims, in PaymentInput) error {
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if in.Recipient == "" {
		return ErrInvalidAccount
	}

	balance, err := b.backend.Balance(ctx, token)
	if err != nil {
		b.metrics.IncTransaction(KindPayment, ResultFailed)
		return fmt.Errorf("%w: %w", ErrBalanceUnavailable, err)
	}
	if balance <= in.Amount {
		b.metrics.IncTransaction(KindPayment, ResultInsufficient)
		b.logger.LogAttrs(ctx, slog.LevelWarn, "payment rejected",
			slog.String("reason", ErrInsufficientFunds.Error()),
			slog.String("account", claims.Account),
			slog.Int64("amount", in.Amount),
			slog.String("request_id", middleware.GetRequestID(ctx)),
		)
		return ErrInsufficientFunds
	}

	return b.submit(ctx, token, KindPayment, model.TransactionRequest{
		FromRoutingNum: b.routingNum,
		FromAccountNum: claims.Account,
		ToRoutingNum:   b.routingNum,
		ToAccountNum:   in.Recipient,
		Amount:         in.Amount,
	})
}

// Deposit moves funds from an external account into the signed-in account.
func (b *Bank) Deposit(ctx context.Context, token string, claims *auth.Claims, in DepositInput) error {
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !in.From.Valid() {
		return ErrInvalidAccount
	}

	return b.submit(ctx, token, KindDeposit, model.TransactionRequest{
		FromRoutingNum: in.From.RoutingNum,
		FromAccountNum: in.From.AccountNum,
		ToRoutingNum:   b.routingNum,
		ToAccountNum:   claims.Account,
		Amount:         in.Amount,
	})
}

func (b *Bank) submit(ctx context.Context, token, kind string, tx model.TransactionRequest) error {
	if err := b.backend.SubmitTransaction(ctx, token, tx); err != nil {
		b.metrics.IncTransaction(kind, ResultFailed)
		return &SubmissionError{Kind: kind, Err: err}
	}

	b.metrics.IncTransaction(kind, ResultSubmitted)
	b.logger.LogAttrs(ctx, slog.LevelInfo, "transaction submitted",
		slog.String("kind", kind),
		slog.String("from_account", tx.FromAccountNum),
		slog.String("to_account", tx.ToAccountNum),
		slog.Int64("amount", tx.Amount),
		slog.String("request_id", middleware.GetRequestID(ctx)),
	)
	return nil
}

// Login exchanges credentials for a session token. The token is verified
// before it is returned, so callers never store an unverified token.
func (b *Bank) Login(ctx context.Context, username, password string) (*Session, error) {
	token, err := b.backend.Token(ctx, username, password)
	if err != nil {
		b.metrics.IncLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	claims, err := b.verifier.Verify(token)
	if err != nil {
		b.metrics.IncLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: issued token: %w", ErrLoginFailed, err)
	}

	b.metrics.IncLogin(metrics.OutcomeSuccess)
	return &Session{Token: token, MaxAge: claims.MaxAge()}, nil
}
