package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateType distinguishes the pricing context an exchange rate was captured in.
type RateType string

const (
	RateSpot     RateType = "SPOT"
	RateEOD      RateType = "EOD"
	RateMonthEnd RateType = "MONTH_END"
	RateYearEnd  RateType = "YEAR_END"
)

// ValidRateType reports whether t is a recognized rate type.
func ValidRateType(t RateType) bool {
	switch t {
	case RateSpot, RateEOD, RateMonthEnd, RateYearEnd:
		return true
	}
	return false
}

// ExchangeRate stores the conversion rate between two currencies for a
// specific date and rate type. A given (pair, date, type) resolves to exactly
// one rate; re-ingesting the same key overwrites the previous value.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Date             time.Time       `json:"date"` // day granularity, midnight UTC
	RateType         RateType        `json:"rateType"`
	AuditFields
}
