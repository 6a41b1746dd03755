package services

import (
	"github.com/plata-app/plata-core/internal/core/domain"
)

// CurrencySvc exposes the read-only currency registry.
type CurrencySvc interface {
	// GetCurrency retrieves a registry entry or ErrNotFound.
	GetCurrency(code string) (domain.Currency, error)

	// ListCurrencies lists all registered currencies sorted by code.
	ListCurrencies() []domain.Currency
}
