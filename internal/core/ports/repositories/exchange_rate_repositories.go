package repositories

import (
	"context"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data.
type ExchangeRateReader interface {
	// FindRate retrieves the rate for an exact (pair, date, type) key.
	FindRate(ctx context.Context, fromCode, toCode string, date time.Time, rateType domain.RateType) (*domain.ExchangeRate, error)

	// FindRatesForDate retrieves all rates into toCode effective on the given
	// date and type, keyed by the from-currency code.
	FindRatesForDate(ctx context.Context, toCode string, date time.Time, rateType domain.RateType) (map[string]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data.
type ExchangeRateWriter interface {
	// UpsertRate persists a rate. The (pair, date, type) key is unique;
	// re-ingestion overwrites the previous value (last write wins).
	UpsertRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepository combines all exchange-rate repository operations.
type ExchangeRateRepository interface {
	ExchangeRateReader
	ExchangeRateWriter
}
