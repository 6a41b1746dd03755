package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/plata-app/plata-core/internal/apperrors"
)

// Money is an immutable, currency-tagged monetary value stored as an exact
// integer amount of the currency's minor unit (cents for USD, 1e-8 for BTC).
// All arithmetic returns a new value; cross-currency arithmetic fails with
// apperrors.ErrCurrencyMismatch.
//
// Scalar multiplication and division round half away from zero to the nearest
// minor unit. That rounding mode is pinned by the money tests.
type Money struct {
	amountMinor int64
	currency    string
}

// NewMoney creates a Money from an integer minor-unit amount.
func NewMoney(amountMinor int64, currencyCode string) Money {
	return Money{amountMinor: amountMinor, currency: currencyCode}
}

// FromMinorUnits is an alias of NewMoney kept for call-site readability.
func FromMinorUnits(amountMinor int64, currencyCode string) Money {
	return NewMoney(amountMinor, currencyCode)
}

// FromMajorUnits converts a major-unit decimal amount (e.g. 12.345 MXN) into
// Money, rounding half away from zero at the currency's registered scale.
func FromMajorUnits(amount decimal.Decimal, currency Currency) Money {
	minor := amount.Shift(int32(currency.MinorUnitScale)).Round(0)
	return Money{amountMinor: minor.IntPart(), currency: currency.Code}
}

// ZeroMoney returns a zero value in the given currency.
func ZeroMoney(currencyCode string) Money {
	return Money{currency: currencyCode}
}

// MinorUnits returns the integer minor-unit amount.
func (m Money) MinorUnits() int64 { return m.amountMinor }

// CurrencyCode returns the currency the amount is denominated in.
func (m Money) CurrencyCode() string { return m.currency }

// Major returns the amount in major units at the given currency's scale.
func (m Money) Major(currency Currency) decimal.Decimal {
	return decimal.New(m.amountMinor, -int32(currency.MinorUnitScale))
}

func (m Money) sameCurrency(n Money) error {
	if m.currency != n.currency {
		return fmt.Errorf("%w: %s vs %s", apperrors.ErrCurrencyMismatch, m.currency, n.currency)
	}
	return nil
}

// Add returns m + n. Fails if the currencies differ.
func (m Money) Add(n Money) (Money, error) {
	if err := m.sameCurrency(n); err != nil {
		return Money{}, err
	}
	return Money{amountMinor: m.amountMinor + n.amountMinor, currency: m.currency}, nil
}

// Sub returns m - n. Fails if the currencies differ.
func (m Money) Sub(n Money) (Money, error) {
	if err := m.sameCurrency(n); err != nil {
		return Money{}, err
	}
	return Money{amountMinor: m.amountMinor - n.amountMinor, currency: m.currency}, nil
}

// MulScalar returns m scaled by k, rounded half away from zero to the nearest
// minor unit. The currency is preserved.
func (m Money) MulScalar(k decimal.Decimal) Money {
	product := decimal.NewFromInt(m.amountMinor).Mul(k).Round(0)
	return Money{amountMinor: product.IntPart(), currency: m.currency}
}

// DivScalar returns m divided by k, rounded half away from zero to the nearest
// minor unit. Fails with apperrors.ErrDivisionByZero for a zero divisor.
func (m Money) DivScalar(k decimal.Decimal) (Money, error) {
	if k.IsZero() {
		return Money{}, fmt.Errorf("%w: cannot divide %s amount by zero", apperrors.ErrDivisionByZero, m.currency)
	}
	quotient := decimal.NewFromInt(m.amountMinor).Div(k).Round(0)
	return Money{amountMinor: quotient.IntPart(), currency: m.currency}, nil
}

// Neg returns the negated amount.
func (m Money) Neg() Money { return Money{amountMinor: -m.amountMinor, currency: m.currency} }

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m.amountMinor < 0 {
		return m.Neg()
	}
	return m
}

// Equal reports whether m and n have the same currency and amount.
// Unlike the ordering comparisons it does not error on a currency mismatch;
// amounts in different currencies are simply never equal.
func (m Money) Equal(n Money) bool {
	return m.currency == n.currency && m.amountMinor == n.amountMinor
}

// GreaterThan reports whether m > n. Fails if the currencies differ.
func (m Money) GreaterThan(n Money) (bool, error) {
	if err := m.sameCurrency(n); err != nil {
		return false, err
	}
	return m.amountMinor > n.amountMinor, nil
}

// LessThan reports whether m < n. Fails if the currencies differ.
func (m Money) LessThan(n Money) (bool, error) {
	if err := m.sameCurrency(n); err != nil {
		return false, err
	}
	return m.amountMinor < n.amountMinor, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amountMinor == 0 }

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool { return m.amountMinor > 0 }

// IsNegative reports whether the amount is strictly negative.
func (m Money) IsNegative() bool { return m.amountMinor < 0 }

// Format renders the amount using the registry's separators and symbol
// placement. Formatting is presentation only; the stored integer is untouched.
func (m Money) Format(currency Currency) string {
	negative := m.amountMinor < 0
	abs := m.amountMinor
	if negative {
		abs = -abs
	}

	digits := fmt.Sprintf("%d", abs)
	scale := currency.MinorUnitScale
	for len(digits) <= scale {
		digits = "0" + digits
	}
	intPart := digits[:len(digits)-scale]
	fracPart := digits[len(digits)-scale:]

	// Insert thousands separators into the integer part.
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteString(currency.ThousandsSeparator)
		}
		grouped.WriteRune(r)
	}

	number := grouped.String()
	if scale > 0 {
		number += currency.DecimalSeparator + fracPart
	}
	if negative {
		number = "-" + number
	}

	if currency.SymbolPosition == SymbolAfter {
		return number + " " + currency.Symbol
	}
	return currency.Symbol + number
}

// moneyJSON is the wire shape shared with persistence and API responses.
type moneyJSON struct {
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency"`
}

// MarshalJSON encodes Money as {"amountMinor": n, "currency": "XXX"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{AmountMinor: m.amountMinor, Currency: m.currency})
}

// UnmarshalJSON decodes the {amountMinor, currency} wire shape.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.amountMinor = raw.AmountMinor
	m.currency = raw.Currency
	return nil
}

// String renders the amount as "<minor> <code>" for logs and errors.
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amountMinor, m.currency)
}
