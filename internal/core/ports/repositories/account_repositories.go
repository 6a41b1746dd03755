package repositories

import (
	"context"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its user-facing code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts, optionally including inactive ones.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)

	// HasPostings reports whether any posting references the account.
	HasPostings(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, actor string, now time.Time) error
}

// AccountRepository combines all account-related repository operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
