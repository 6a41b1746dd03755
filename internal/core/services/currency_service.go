package services

import (
	"github.com/plata-app/plata-core/internal/core/domain"
	portssvc "github.com/plata-app/plata-core/internal/core/ports/services"
)

// currencyService exposes the read-only currency registry to callers.
type currencyService struct {
	registry *domain.CurrencyRegistry
}

// NewCurrencyService creates a currency service over the given registry.
func NewCurrencyService(registry *domain.CurrencyRegistry) portssvc.CurrencySvc {
	return &currencyService{registry: registry}
}

var _ portssvc.CurrencySvc = (*currencyService)(nil)

func (s *currencyService) GetCurrency(code string) (domain.Currency, error) {
	return s.registry.Get(code)
}

func (s *currencyService) ListCurrencies() []domain.Currency {
	return s.registry.List()
}
