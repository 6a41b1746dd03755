package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
)

// ClosingRepository is an in-memory period-close store.
type ClosingRepository struct {
	mu      sync.RWMutex
	periods []domain.ClosedPeriod
	entries map[string]domain.ClosingEntry // key: periodType + end date
}

// NewClosingRepository creates an empty in-memory closing repository.
func NewClosingRepository() *ClosingRepository {
	return &ClosingRepository{entries: make(map[string]domain.ClosingEntry)}
}

var _ portsrepo.ClosingRepository = (*ClosingRepository)(nil)

func entryKey(periodType domain.PeriodType, date time.Time) string {
	return string(periodType) + "|" + domain.DateOnly(date).Format(time.DateOnly)
}

func (r *ClosingRepository) SaveClosing(_ context.Context, period domain.ClosedPeriod, entry domain.ClosingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.periods {
		if p.PeriodType == period.PeriodType && p.StartDate.Equal(period.StartDate) && p.EndDate.Equal(period.EndDate) {
			return fmt.Errorf("%w: %s period ending %s", apperrors.ErrPeriodAlreadyClosed,
				period.PeriodType, period.EndDate.Format(time.DateOnly))
		}
	}
	r.periods = append(r.periods, period)
	r.entries[entryKey(entry.PeriodType, entry.Date)] = entry
	return nil
}

func (r *ClosingRepository) IsDateClosed(_ context.Context, date time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.periods {
		if p.Contains(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ClosingRepository) FindClosedPeriod(_ context.Context, periodType domain.PeriodType, start, end time.Time) (*domain.ClosedPeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.periods {
		if p.PeriodType == periodType && p.StartDate.Equal(start) && p.EndDate.Equal(end) {
			period := p
			return &period, nil
		}
	}
	return nil, fmt.Errorf("%w: %s period ending %s", apperrors.ErrNotFound, periodType, end.Format(time.DateOnly))
}

func (r *ClosingRepository) FindClosingEntry(_ context.Context, periodType domain.PeriodType, date time.Time) (*domain.ClosingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[entryKey(periodType, date)]
	if !ok {
		return nil, fmt.Errorf("%w: closing entry for %s %s", apperrors.ErrNotFound, periodType, domain.DateOnly(date).Format(time.DateOnly))
	}
	return &entry, nil
}
