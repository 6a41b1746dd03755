package services

import (
	"context"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
)

// ClosingSvc materializes balance snapshots and performs period close.
type ClosingSvc interface {
	// GenerateDailySnapshots recomputes and overwrites snapshots for all
	// accounts as of the given day. Regeneration is idempotent.
	GenerateDailySnapshots(ctx context.Context, date time.Time) ([]domain.AccountSnapshot, error)

	// GenerateMonthlySnapshots snapshots all accounts at the month boundary.
	GenerateMonthlySnapshots(ctx context.Context, year int, month time.Month) ([]domain.AccountSnapshot, error)

	// GenerateYearlySnapshots snapshots all accounts at the year boundary.
	GenerateYearlySnapshots(ctx context.Context, year int) ([]domain.AccountSnapshot, error)

	// CloseMonth rolls the month's net income into retained earnings via a
	// single closing transaction, marks the period closed and returns the
	// closing entry. A second close fails with ErrPeriodAlreadyClosed.
	CloseMonth(ctx context.Context, year int, month time.Month, retainedEarningsAccountID string) (*domain.ClosingEntry, error)

	// CloseYear is CloseMonth at year granularity.
	CloseYear(ctx context.Context, year int, retainedEarningsAccountID string) (*domain.ClosingEntry, error)

	// IsPeriodClosed reports whether the date falls in a closed period.
	IsPeriodClosed(ctx context.Context, date time.Time) (bool, error)

	// GetSnapshots retrieves stored snapshots of the given period type with
	// dates in [from, to].
	GetSnapshots(ctx context.Context, periodType domain.PeriodType, from, to time.Time) ([]domain.AccountSnapshot, error)

	// GetClosingEntry retrieves the closing entry recorded for a period end
	// date and type, or ErrNotFound.
	GetClosingEntry(ctx context.Context, periodType domain.PeriodType, date time.Time) (*domain.ClosingEntry, error)
}
