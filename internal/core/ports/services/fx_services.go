package services

import (
	"context"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
	"github.com/plata-app/plata-core/internal/dto"
)

// FxSvc resolves exchange rates, converts amounts and performs month-end
// revaluation of open foreign-currency positions.
type FxSvc interface {
	// UpsertRate ingests a rate; the (pair, date, type) key is last-write-wins.
	UpsertRate(ctx context.Context, req dto.UpsertExchangeRateRequest) (*domain.ExchangeRate, error)

	// GetRate retrieves the rate for an exact (pair, date, type) key.
	GetRate(ctx context.Context, fromCode, toCode string, date time.Time, rateType domain.RateType) (*domain.ExchangeRate, error)

	// Convert converts an amount at a SPOT (falling back to EOD) rate
	// effective exactly on date. No silent fallback to another date: a missing
	// rate fails with ErrRateNotFound.
	Convert(ctx context.Context, amount domain.Money, toCode string, date time.Time) (domain.Money, error)

	// CalculateFxPositions aggregates open foreign-currency positions from
	// postings and re-prices them at the given month-end rates (keyed by
	// currency code). Base-currency postings and zero-native-sum positions are
	// excluded; positions without a rate are skipped.
	CalculateFxPositions(postings []domain.Posting, monthEndRates map[string]domain.ExchangeRate, baseCurrency string) []domain.FxRevaluation

	// IsRevaluationNeeded reports whether the sum of absolute unrealized
	// gains/losses meets or exceeds the materiality threshold (base minor units).
	IsRevaluationNeeded(revaluations []domain.FxRevaluation, thresholdMinor int64) bool

	// GenerateRevaluationTransactions builds one balanced transaction per
	// non-zero revaluation against the FX gain/loss account. The requests are
	// submitted through the ledger like any other transaction.
	GenerateRevaluationTransactions(revaluations []domain.FxRevaluation, fxGainLossAccountID string, date time.Time) []dto.SubmitTransactionRequest

	// RevalueMonthEnd runs the whole month-end revaluation for one month and
	// returns the transactions it submitted. Positions lacking a month-end
	// rate are logged and skipped rather than failing the run.
	RevalueMonthEnd(ctx context.Context, year int, month time.Month) ([]*domain.Transaction, error)
}
