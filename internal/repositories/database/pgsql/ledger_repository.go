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
	"github.com/shopspring/decimal"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
)

const transactionColumns = `transaction_id, date, description, reference, status, original_transaction_id, reversing_transaction_id, created_at, created_by, last_updated_at, last_updated_by`

const postingColumns = `posting_id, transaction_id, account_id, direction, native_amount_minor, native_currency_code, booked_amount_minor, booked_currency_code, fx_rate, date, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for transactions, postings
// and balance aggregates.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// nullableTime maps the zero time (open range bound) to SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// SaveTransaction persists the transaction header and all its postings in one
// database transaction.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, postings []domain.Posting) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	if err := r.insertTransaction(ctx, tx, txn, postings); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveReversal stores the reversing transaction and flips the original to
// REVERSED in the same database transaction, so neither write can land
// without the other.
func (r *PgxLedgerRepository) SaveReversal(ctx context.Context, reversing domain.Transaction, postings []domain.Posting, originalTransactionID string, actor string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	if err := r.insertTransaction(ctx, tx, reversing, postings); err != nil {
		return err
	}

	updateQuery := `
		UPDATE transactions
		SET status = $2, reversing_transaction_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery, originalTransactionID, domain.Reversed, reversing.TransactionID, now, actor)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s reversed: %w", originalTransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, originalTransactionID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxLedgerRepository) insertTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction, postings []domain.Posting) error {
	txnQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, txnQuery,
		txn.TransactionID,
		txn.Date,
		txn.Description,
		txn.Reference,
		txn.Status,
		txn.OriginalTransactionID,
		txn.ReversingTransactionID,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	postingQuery := `
		INSERT INTO postings (` + postingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	batch := &pgx.Batch{}
	for _, p := range postings {
		batch.Queue(postingQuery,
			p.PostingID,
			p.TransactionID,
			p.AccountID,
			p.Direction,
			p.NativeAmount.MinorUnits(),
			p.NativeAmount.CurrencyCode(),
			p.BookedAmount.MinorUnits(),
			p.BookedAmount.CurrencyCode(),
			p.FxRate,
			p.Date,
			p.CreatedAt,
			p.CreatedBy,
			p.LastUpdatedAt,
			p.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert posting %s: %w", postings[i].PostingID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close posting insert batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	return nil
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var txn domain.Transaction
	var reference sql.NullString
	err := row.Scan(
		&txn.TransactionID,
		&txn.Date,
		&txn.Description,
		&reference,
		&txn.Status,
		&txn.OriginalTransactionID,
		&txn.ReversingTransactionID,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	txn.Reference = reference.String
	return txn, nil
}

// FindTransactionByID retrieves a transaction header by ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

func scanPosting(row pgx.Row) (domain.Posting, error) {
	var p domain.Posting
	var nativeMinor, bookedMinor int64
	var nativeCurrency, bookedCurrency string
	var fxRate decimal.Decimal
	err := row.Scan(
		&p.PostingID,
		&p.TransactionID,
		&p.AccountID,
		&p.Direction,
		&nativeMinor,
		&nativeCurrency,
		&bookedMinor,
		&bookedCurrency,
		&fxRate,
		&p.Date,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return domain.Posting{}, err
	}
	p.NativeAmount = domain.FromMinorUnits(nativeMinor, nativeCurrency)
	p.BookedAmount = domain.FromMinorUnits(bookedMinor, bookedCurrency)
	p.FxRate = fxRate
	return p, nil
}

func (r *PgxLedgerRepository) queryPostings(ctx context.Context, query string, args ...any) ([]domain.Posting, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	defer rows.Close()

	var postings []domain.Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posting row: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posting rows: %w", err)
	}
	return postings, nil
}

// FindPostingsByTransactionID retrieves all postings of one transaction.
func (r *PgxLedgerRepository) FindPostingsByTransactionID(ctx context.Context, transactionID string) ([]domain.Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings WHERE transaction_id = $1 ORDER BY posting_id;`
	postings, err := r.queryPostings(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return postings, nil
}

// ListPostingsByAccount retrieves an account's postings with dates in
// [from, to]. A zero bound is open.
func (r *PgxLedgerRepository) ListPostingsByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Posting, error) {
	query := `
		SELECT ` + postingColumns + `
		FROM postings
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date, posting_id;
	`
	return r.queryPostings(ctx, query, accountID, nullableTime(from), nullableTime(to))
}

// ListPostingsInRange retrieves all postings with dates in [from, to]. A zero
// bound is open.
func (r *PgxLedgerRepository) ListPostingsInRange(ctx context.Context, from, to time.Time) ([]domain.Posting, error) {
	query := `
		SELECT ` + postingColumns + `
		FROM postings
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date <= $2)
		ORDER BY date, posting_id;
	`
	return r.queryPostings(ctx, query, nullableTime(from), nullableTime(to))
}

// GetAccountActivityAsOf returns one account's debit/credit booked sums up to
// and including asOf. Accounts without postings yield a zero aggregate.
func (r *PgxLedgerRepository) GetAccountActivityAsOf(ctx context.Context, accountID string, asOf time.Time) (domain.AccountActivity, error) {
	query := `
		SELECT
			COALESCE(SUM(booked_amount_minor) FILTER (WHERE direction = 'DEBIT'), 0),
			COALESCE(SUM(booked_amount_minor) FILTER (WHERE direction = 'CREDIT'), 0)
		FROM postings
		WHERE account_id = $1 AND ($2::timestamptz IS NULL OR date <= $2);
	`
	act := domain.AccountActivity{AccountID: accountID}
	err := r.Pool.QueryRow(ctx, query, accountID, nullableTime(asOf)).Scan(&act.DebitMinor, &act.CreditMinor)
	if err != nil {
		return domain.AccountActivity{}, fmt.Errorf("failed to aggregate activity for account %s: %w", accountID, err)
	}
	return act, nil
}

// GetActivityAsOf returns aggregates for all accounts with postings up to and
// including asOf.
func (r *PgxLedgerRepository) GetActivityAsOf(ctx context.Context, asOf time.Time) (map[string]domain.AccountActivity, error) {
	return r.aggregateActivity(ctx, time.Time{}, asOf)
}

// GetActivityInRange returns aggregates for all accounts over postings with
// dates in [from, to].
func (r *PgxLedgerRepository) GetActivityInRange(ctx context.Context, from, to time.Time) (map[string]domain.AccountActivity, error) {
	return r.aggregateActivity(ctx, from, to)
}

func (r *PgxLedgerRepository) aggregateActivity(ctx context.Context, from, to time.Time) (map[string]domain.AccountActivity, error) {
	query := `
		SELECT
			account_id,
			COALESCE(SUM(booked_amount_minor) FILTER (WHERE direction = 'DEBIT'), 0),
			COALESCE(SUM(booked_amount_minor) FILTER (WHERE direction = 'CREDIT'), 0)
		FROM postings
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date <= $2)
		GROUP BY account_id;
	`
	rows, err := r.Pool.Query(ctx, query, nullableTime(from), nullableTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate account activity: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.AccountActivity)
	for rows.Next() {
		var act domain.AccountActivity
		if err := rows.Scan(&act.AccountID, &act.DebitMinor, &act.CreditMinor); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		out[act.AccountID] = act
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return out, nil
}
