package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
)

const accountColumns = `account_id, name, code, nature, currency_code, parent_account_id, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// scanAccount reads one account row. The caller supplies any pgx.Row-like
// scanner (QueryRow result or rows.Scan closure target).
func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	var parentID sql.NullString
	err := row.Scan(
		&acc.AccountID,
		&acc.Name,
		&acc.Code,
		&acc.Nature,
		&acc.CurrencyCode,
		&parentID,
		&acc.Description,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if parentID.Valid {
		acc.ParentAccountID = parentID.String
	}
	return acc, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// SaveAccount inserts a new account. A unique violation on the code column is
// reported as apperrors.ErrDuplicateCode.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Code,
		account.Nature,
		account.CurrencyCode,
		nullableString(account.ParentAccountID),
		account.Description,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			if pgErr.ConstraintName == "accounts_code_key" {
				return fmt.Errorf("%w: code %s", apperrors.ErrDuplicateCode, account.Code)
			}
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its user-facing code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. IDs with no
// matching row are absent from the result; the caller decides whether that is
// an error.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accountsMap[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}
	return accountsMap, nil
}

// ListAccounts retrieves all accounts ordered by code, optionally including
// inactive ones.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ($1 OR is_active = TRUE) ORDER BY code;`
	rows, err := r.pool.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// HasPostings reports whether any posting references the account.
func (r *PgxAccountRepository) HasPostings(ctx context.Context, accountID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM postings WHERE account_id = $1);`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check postings for account %s: %w", accountID, err)
	}
	return exists, nil
}

// UpdateAccount updates an existing account's mutable details. Code and nature
// are immutable here; the service layer enforces the rules around them.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, description = $3, is_active = $4, parent_account_id = $5, last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Description,
		account.IsActive,
		nullableString(account.ParentAccountID),
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", account.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, actor string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.pool.Exec(ctx, query, accountID, now, actor)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the account does not exist or it was already inactive.
		if _, findErr := r.FindAccountByID(ctx, accountID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrConflict, accountID)
	}
	return nil
}
