package repositories

import (
	"context"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
)

// TransactionReader defines read operations for transactions and postings.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction header by ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindPostingsByTransactionID retrieves all postings of one transaction.
	FindPostingsByTransactionID(ctx context.Context, transactionID string) ([]domain.Posting, error)

	// ListPostingsByAccount retrieves an account's postings with dates in
	// [from, to], ordered by date then posting ID.
	ListPostingsByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Posting, error)

	// ListPostingsInRange retrieves all postings with dates in [from, to].
	ListPostingsInRange(ctx context.Context, from, to time.Time) ([]domain.Posting, error)
}

// TransactionWriter defines write operations for transactions and postings.
type TransactionWriter interface {
	// SaveTransaction persists a transaction and all of its postings as a
	// single atomic unit: either everything is stored or nothing is.
	SaveTransaction(ctx context.Context, txn domain.Transaction, postings []domain.Posting) error

	// SaveReversal persists the reversing transaction with its postings and
	// marks the original REVERSED with the reversal link, atomically: a
	// reversal is never stored while the original still reads POSTED.
	SaveReversal(ctx context.Context, reversing domain.Transaction, postings []domain.Posting, originalTransactionID string, actor string, now time.Time) error
}

// ActivityReader defines booked-amount aggregate queries used for balances and
// statements. Implementations must be equivalent to replaying every posting in
// the window and summing debit and credit booked amounts per account; they are
// free to answer from an incremental index instead of an actual replay.
type ActivityReader interface {
	// GetAccountActivityAsOf returns one account's aggregate up to and
	// including asOf. Accounts without postings yield a zero aggregate.
	GetAccountActivityAsOf(ctx context.Context, accountID string, asOf time.Time) (domain.AccountActivity, error)

	// GetActivityAsOf returns aggregates for all accounts with postings up to
	// and including asOf, keyed by account ID.
	GetActivityAsOf(ctx context.Context, asOf time.Time) (map[string]domain.AccountActivity, error)

	// GetActivityInRange returns aggregates for all accounts over postings
	// with dates in [from, to], keyed by account ID.
	GetActivityInRange(ctx context.Context, from, to time.Time) (map[string]domain.AccountActivity, error)
}

// LedgerRepository combines all ledger repository operations.
type LedgerRepository interface {
	TransactionReader
	TransactionWriter
	ActivityReader
}
