package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FxPosition aggregates the open exposure of one account in one foreign
// currency: the signed sum of native posting amounts (debit positive) and the
// signed sum of the base-currency amounts previously booked for them.
type FxPosition struct {
	AccountID      string `json:"accountID"`
	CurrencyCode   string `json:"currencyCode"`
	NativeSumMinor int64  `json:"nativeSumMinor"` // in the position's currency
	BookedSumMinor int64  `json:"bookedSumMinor"` // in the base currency
}

// FxRevaluation is a position re-priced at a month-end rate.
type FxRevaluation struct {
	Position                FxPosition      `json:"position"`
	Rate                    decimal.Decimal `json:"rate"`
	RateDate                time.Time       `json:"rateDate"`
	CurrentValueMinor       int64           `json:"currentValueMinor"`       // base currency
	UnrealizedGainLossMinor int64           `json:"unrealizedGainLossMinor"` // currentValue - bookedSum
}
