package repositories

import (
	"context"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
)

// SnapshotRepository defines operations for materialized account balances.
// Snapshots are the one entity class that is overwritten in place: the
// (account, date, period type) key is unique and upserts replace prior values.
type SnapshotRepository interface {
	// UpsertSnapshots stores or replaces the given snapshots.
	UpsertSnapshots(ctx context.Context, snapshots []domain.AccountSnapshot) error

	// FindSnapshots retrieves snapshots of the given period type with dates in
	// [from, to], ordered by date then account ID.
	FindSnapshots(ctx context.Context, periodType domain.PeriodType, from, to time.Time) ([]domain.AccountSnapshot, error)
}

// ClosingReader defines read operations for period-close state.
type ClosingReader interface {
	// IsDateClosed reports whether the given date falls in any closed period.
	IsDateClosed(ctx context.Context, date time.Time) (bool, error)

	// FindClosedPeriod retrieves the closed period exactly matching the given
	// type and boundaries, or apperrors.ErrNotFound.
	FindClosedPeriod(ctx context.Context, periodType domain.PeriodType, start, end time.Time) (*domain.ClosedPeriod, error)

	// FindClosingEntry retrieves the closing entry for a period end date and
	// type, or apperrors.ErrNotFound.
	FindClosingEntry(ctx context.Context, periodType domain.PeriodType, date time.Time) (*domain.ClosingEntry, error)
}

// ClosingWriter defines write operations for period-close state.
type ClosingWriter interface {
	// SaveClosing marks a period closed and records its closing entry
	// atomically.
	SaveClosing(ctx context.Context, period domain.ClosedPeriod, entry domain.ClosingEntry) error
}

// ClosingRepository combines all period-close repository operations.
type ClosingRepository interface {
	ClosingReader
	ClosingWriter
}
