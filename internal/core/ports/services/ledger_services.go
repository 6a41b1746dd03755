package services

import (
	"context"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
	"github.com/plata-app/plata-core/internal/dto"
)

// LedgerSvc is the single writer of postings and the balance query surface.
type LedgerSvc interface {
	// SubmitTransaction validates and persists a balanced transaction
	// atomically. Validation failures (ErrCurrencyMismatch,
	// ErrUnbalancedTransaction, ErrPeriodClosed, ErrValidation) leave nothing
	// persisted.
	SubmitTransaction(ctx context.Context, req dto.SubmitTransactionRequest) (*domain.Transaction, error)

	// ReverseTransaction creates a new transaction whose postings exactly
	// invert the original's directions. The original is never mutated beyond
	// its status and reversal link.
	ReverseTransaction(ctx context.Context, transactionID string, date time.Time) (*domain.Transaction, error)

	// GetTransactionByID retrieves a transaction with its postings.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListPostingsByAccount lists an account's postings in [from, to].
	ListPostingsByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Posting, error)

	// ListTransactionsByAccount lists the transactions that touched the
	// account in [from, to], postings included, ordered by date.
	ListTransactionsByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// GetAccountBalance returns the signed sum of booked posting amounts for
	// the account up to and including asOf, in the account's normal-balance
	// sign convention, denominated in the base currency.
	GetAccountBalance(ctx context.Context, accountID string, asOf time.Time) (domain.Money, error)

	// GetAccountBalances is the batched variant of GetAccountBalance and is
	// consistent with repeated single-account calls for the same asOf.
	GetAccountBalances(ctx context.Context, accountIDs []string, asOf time.Time) (map[string]domain.Money, error)

	// GetAllAccountBalances returns balances for every account.
	GetAllAccountBalances(ctx context.Context, asOf time.Time) (map[string]domain.Money, error)

	// BaseCurrency returns the ledger's book currency code.
	BaseCurrency() string
}
