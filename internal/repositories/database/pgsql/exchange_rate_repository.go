package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
)

const exchangeRateColumns = `exchange_rate_id, from_currency_code, to_currency_code, rate, date, rate_type, created_at, created_by, last_updated_at, last_updated_by`

// PgxExchangeRateRepository implements the exchange-rate repository over
// pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepository {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepository = (*PgxExchangeRateRepository)(nil)

// UpsertRate persists a rate. The (pair, date, type) key is unique; the ON
// CONFLICT clause implements last-write-wins re-ingestion.
func (r *PgxExchangeRateRepository) UpsertRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (from_currency_code, to_currency_code, date, rate_type)
		DO UPDATE SET rate = EXCLUDED.rate, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		rate.ExchangeRateID,
		rate.FromCurrencyCode,
		rate.ToCurrencyCode,
		rate.Rate,
		rate.Date,
		rate.RateType,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rate %s/%s on %s: %w",
			rate.FromCurrencyCode, rate.ToCurrencyCode, rate.Date.Format(time.DateOnly), err)
	}
	return nil
}

func scanExchangeRate(row pgx.Row) (domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	var value decimal.Decimal
	err := row.Scan(
		&rate.ExchangeRateID,
		&rate.FromCurrencyCode,
		&rate.ToCurrencyCode,
		&value,
		&rate.Date,
		&rate.RateType,
		&rate.CreatedAt,
		&rate.CreatedBy,
		&rate.LastUpdatedAt,
		&rate.LastUpdatedBy,
	)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	rate.Rate = value
	return rate, nil
}

// FindRate retrieves the rate for an exact (pair, date, type) key, or
// apperrors.ErrRateNotFound.
func (r *PgxExchangeRateRepository) FindRate(ctx context.Context, fromCode, toCode string, date time.Time, rateType domain.RateType) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date = $3 AND rate_type = $4;
	`
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, fromCode, toCode, date, rateType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s %s on %s", apperrors.ErrRateNotFound,
				fromCode, toCode, rateType, date.Format(time.DateOnly))
		}
		return nil, fmt.Errorf("failed to find rate %s/%s: %w", fromCode, toCode, err)
	}
	return &rate, nil
}

// FindRatesForDate retrieves all rates into toCode effective on the given date
// and type, keyed by the from-currency code.
func (r *PgxExchangeRateRepository) FindRatesForDate(ctx context.Context, toCode string, date time.Time, rateType domain.RateType) (map[string]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE to_currency_code = $1 AND date = $2 AND rate_type = $3;
	`
	rows, err := r.Pool.Query(ctx, query, toCode, date, rateType)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates into %s: %w", toCode, err)
	}
	defer rows.Close()

	out := make(map[string]domain.ExchangeRate)
	for rows.Next() {
		rate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		out[rate.FromCurrencyCode] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rate rows: %w", err)
	}
	return out, nil
}
