package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plata-app/plata-core/internal/core/domain"
)

// UpsertExchangeRateRequest defines a rate ingestion. The (pair, date, type)
// key is unique; re-ingesting overwrites the stored rate.
type UpsertExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" validate:"required,uppercase,min=3,max=4"`
	ToCurrencyCode   string          `json:"toCurrencyCode" validate:"required,uppercase,min=3,max=4"`
	Rate             decimal.Decimal `json:"rate" validate:"required"`
	Date             time.Time       `json:"date" validate:"required"`
	RateType         domain.RateType `json:"rateType" validate:"required,oneof=SPOT EOD MONTH_END YEAR_END"`
}
