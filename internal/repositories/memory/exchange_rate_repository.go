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

type rateKey struct {
	from     string
	to       string
	date     time.Time
	rateType domain.RateType
}

// ExchangeRateRepository is an in-memory rate store keyed by
// (pair, date, type) with last-write-wins semantics.
type ExchangeRateRepository struct {
	mu    sync.RWMutex
	rates map[rateKey]domain.ExchangeRate
}

// NewExchangeRateRepository creates an empty in-memory rate repository.
func NewExchangeRateRepository() *ExchangeRateRepository {
	return &ExchangeRateRepository{rates: make(map[rateKey]domain.ExchangeRate)}
}

var _ portsrepo.ExchangeRateRepository = (*ExchangeRateRepository)(nil)

func (r *ExchangeRateRepository) UpsertRate(_ context.Context, rate domain.ExchangeRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := rateKey{
		from:     rate.FromCurrencyCode,
		to:       rate.ToCurrencyCode,
		date:     domain.DateOnly(rate.Date),
		rateType: rate.RateType,
	}
	r.rates[key] = rate
	return nil
}

func (r *ExchangeRateRepository) FindRate(_ context.Context, fromCode, toCode string, date time.Time, rateType domain.RateType) (*domain.ExchangeRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := rateKey{from: fromCode, to: toCode, date: domain.DateOnly(date), rateType: rateType}
	rate, ok := r.rates[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s %s on %s", apperrors.ErrRateNotFound,
			fromCode, toCode, rateType, domain.DateOnly(date).Format(time.DateOnly))
	}
	return &rate, nil
}

func (r *ExchangeRateRepository) FindRatesForDate(_ context.Context, toCode string, date time.Time, rateType domain.RateType) (map[string]domain.ExchangeRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := domain.DateOnly(date)
	out := make(map[string]domain.ExchangeRate)
	for key, rate := range r.rates {
		if key.to == toCode && key.rateType == rateType && key.date.Equal(day) {
			out[key.from] = rate
		}
	}
	return out, nil
}
