package domain

import (
	"fmt"
	"sort"

	gomoney "github.com/Rhymond/go-money"

	"github.com/plata-app/plata-core/internal/apperrors"
)

// SymbolPosition controls where a currency symbol is rendered relative to the amount.
type SymbolPosition string

const (
	SymbolBefore SymbolPosition = "BEFORE"
	SymbolAfter  SymbolPosition = "AFTER"
)

// Currency describes one entry of the currency registry: the minor-unit scale
// used for exact integer storage plus the formatting metadata.
type Currency struct {
	Code               string         `json:"code"` // ISO 4217 code, or a registry extension like "BTC"
	Name               string         `json:"name"`
	MinorUnitScale     int            `json:"minorUnitScale"` // e.g. 2 for USD/MXN, 8 for BTC
	Symbol             string         `json:"symbol"`
	SymbolPosition     SymbolPosition `json:"symbolPosition"`
	ThousandsSeparator string         `json:"thousandsSeparator"`
	DecimalSeparator   string         `json:"decimalSeparator"`
}

// CurrencyRegistry is a read-only lookup of the currencies a ledger accepts.
// It is passed explicitly to anything that needs scales or formatting; there is
// no package-level registry state.
type CurrencyRegistry struct {
	byCode map[string]Currency
}

// NewCurrencyRegistry builds a registry from an explicit currency list.
func NewCurrencyRegistry(currencies []Currency) *CurrencyRegistry {
	byCode := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		byCode[c.Code] = c
	}
	return &CurrencyRegistry{byCode: byCode}
}

// Get returns the registry entry for the given code.
func (r *CurrencyRegistry) Get(code string) (Currency, error) {
	c, ok := r.byCode[code]
	if !ok {
		return Currency{}, fmt.Errorf("%w: currency %q is not registered", apperrors.ErrNotFound, code)
	}
	return c, nil
}

// Has reports whether the given currency code is registered.
func (r *CurrencyRegistry) Has(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// List returns all registered currencies sorted by code.
func (r *CurrencyRegistry) List() []Currency {
	out := make([]Currency, 0, len(r.byCode))
	for _, c := range r.byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// fromGoMoney converts a go-money currency definition into a registry entry.
func fromGoMoney(c *gomoney.Currency) Currency {
	pos := SymbolBefore
	// go-money templates are "$1" (symbol first) or "1 $" (symbol last).
	if len(c.Template) > 0 && c.Template[0] == '1' {
		pos = SymbolAfter
	}
	return Currency{
		Code:               c.Code,
		Name:               c.Code,
		MinorUnitScale:     c.Fraction,
		Symbol:             c.Grapheme,
		SymbolPosition:     pos,
		ThousandsSeparator: c.Thousand,
		DecimalSeparator:   c.Decimal,
	}
}

// DefaultRegistry returns a registry seeded with the ISO currencies the product
// supports out of the box, plus an 8-decimal BTC entry.
func DefaultRegistry() *CurrencyRegistry {
	codes := []string{"MXN", "USD", "EUR", "GBP", "JPY", "CAD", "BRL", "COP", "ARS", "CHF"}
	currencies := make([]Currency, 0, len(codes)+1)
	for _, code := range codes {
		if c := gomoney.GetCurrency(code); c != nil {
			currencies = append(currencies, fromGoMoney(c))
		}
	}
	currencies = append(currencies, Currency{
		Code:               "BTC",
		Name:               "Bitcoin",
		MinorUnitScale:     8,
		Symbol:             "₿",
		SymbolPosition:     SymbolBefore,
		ThousandsSeparator: ",",
		DecimalSeparator:   ".",
	})
	return NewCurrencyRegistry(currencies)
}
