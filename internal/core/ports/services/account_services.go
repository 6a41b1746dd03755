package services

import (
	"context"

	"github.com/plata-app/plata-core/internal/core/domain"
	"github.com/plata-app/plata-core/internal/dto"
)

// AccountSvc manages the chart of accounts.
type AccountSvc interface {
	// CreateAccount creates a new account. Fails with ErrDuplicateCode when
	// the code is taken and ErrValidation for an unrecognized nature, unknown
	// currency, missing parent, or a parent assignment that would form a cycle.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount updates an account's mutable details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account. Accounts carrying postings
	// are never hard-deleted.
	DeactivateAccount(ctx context.Context, accountID string) error

	// GetAccountByID retrieves an account by ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its user-facing code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts lists accounts, optionally including inactive ones.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)
}
