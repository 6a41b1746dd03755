package pgsql

import (
	"context"
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

const closedPeriodColumns = `period_id, period_type, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by`

const closingEntryColumns = `closing_id, date, period_type, retained_earnings_account_id, net_income_minor, currency_code, transaction_ids, created_at, created_by, last_updated_at, last_updated_by`

type PgxClosingRepository struct {
	BaseRepository
}

// newPgxClosingRepository creates a new repository for period-close state.
func newPgxClosingRepository(pool *pgxpool.Pool) portsrepo.ClosingRepository {
	return &PgxClosingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClosingRepository = (*PgxClosingRepository)(nil)

// SaveClosing marks a period closed and records its closing entry in one
// database transaction. A unique violation on the period key means the period
// was already closed.
func (r *PgxClosingRepository) SaveClosing(ctx context.Context, period domain.ClosedPeriod, entry domain.ClosingEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	periodQuery := `
		INSERT INTO closed_periods (` + closedPeriodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, periodQuery,
		period.PeriodID,
		period.PeriodType,
		period.StartDate,
		period.EndDate,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s period ending %s", apperrors.ErrPeriodAlreadyClosed,
				period.PeriodType, period.EndDate.Format(time.DateOnly))
		}
		return fmt.Errorf("failed to insert closed period: %w", err)
	}

	// A nil slice would encode as SQL NULL and violate the NOT NULL array
	// column; an empty-period close has no closing transactions.
	transactionIDs := entry.TransactionIDs
	if transactionIDs == nil {
		transactionIDs = []string{}
	}

	entryQuery := `
		INSERT INTO closing_entries (` + closingEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, entryQuery,
		entry.ClosingID,
		entry.Date,
		entry.PeriodType,
		entry.RetainedEarningsAccountID,
		entry.NetIncome.MinorUnits(),
		entry.NetIncome.CurrencyCode(),
		transactionIDs,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert closing entry %s: %w", entry.ClosingID, err)
	}

	return r.Commit(ctx, tx)
}

// IsDateClosed reports whether the given date falls in any closed period.
func (r *PgxClosingRepository) IsDateClosed(ctx context.Context, date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM closed_periods WHERE start_date <= $1 AND end_date >= $1);`
	var closed bool
	if err := r.Pool.QueryRow(ctx, query, domain.DateOnly(date)).Scan(&closed); err != nil {
		return false, fmt.Errorf("failed to check closed periods for %s: %w", date.Format(time.DateOnly), err)
	}
	return closed, nil
}

// FindClosedPeriod retrieves the closed period exactly matching the given type
// and boundaries.
func (r *PgxClosingRepository) FindClosedPeriod(ctx context.Context, periodType domain.PeriodType, start, end time.Time) (*domain.ClosedPeriod, error) {
	query := `
		SELECT ` + closedPeriodColumns + `
		FROM closed_periods
		WHERE period_type = $1 AND start_date = $2 AND end_date = $3;
	`
	var period domain.ClosedPeriod
	err := r.Pool.QueryRow(ctx, query, periodType, start, end).Scan(
		&period.PeriodID,
		&period.PeriodType,
		&period.StartDate,
		&period.EndDate,
		&period.CreatedAt,
		&period.CreatedBy,
		&period.LastUpdatedAt,
		&period.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s period ending %s", apperrors.ErrNotFound,
				periodType, end.Format(time.DateOnly))
		}
		return nil, fmt.Errorf("failed to find closed period: %w", err)
	}
	return &period, nil
}

// FindClosingEntry retrieves the closing entry for a period end date and type.
func (r *PgxClosingRepository) FindClosingEntry(ctx context.Context, periodType domain.PeriodType, date time.Time) (*domain.ClosingEntry, error) {
	query := `
		SELECT ` + closingEntryColumns + `
		FROM closing_entries
		WHERE period_type = $1 AND date = $2;
	`
	var entry domain.ClosingEntry
	var netIncomeMinor int64
	var currencyCode string
	err := r.Pool.QueryRow(ctx, query, periodType, domain.DateOnly(date)).Scan(
		&entry.ClosingID,
		&entry.Date,
		&entry.PeriodType,
		&entry.RetainedEarningsAccountID,
		&netIncomeMinor,
		&currencyCode,
		&entry.TransactionIDs,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: closing entry for %s %s", apperrors.ErrNotFound,
				periodType, domain.DateOnly(date).Format(time.DateOnly))
		}
		return nil, fmt.Errorf("failed to find closing entry: %w", err)
	}
	entry.NetIncome = domain.FromMinorUnits(netIncomeMinor, currencyCode)
	return &entry, nil
}
