package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plata-app/plata-core/internal/core/domain"
)

// PostingInput is one line of a transaction submission. AmountMinor is the
// native amount in the account's currency. For foreign-currency accounts the
// caller supplies either FxRate (native -> base, looked up before submission
// so no I/O happens inside the ledger write path) or an explicit
// BookedMinor override; base-currency postings need neither.
type PostingInput struct {
	AccountID   string           `json:"accountID" validate:"required"`
	Direction   domain.Direction `json:"direction" validate:"required,oneof=DEBIT CREDIT"`
	AmountMinor int64            `json:"amountMinor" validate:"gte=0"`
	FxRate      *decimal.Decimal `json:"fxRate,omitempty"`
	BookedMinor *int64           `json:"bookedMinor,omitempty"`
}

// SubmitTransactionRequest defines a balanced transaction submission.
type SubmitTransactionRequest struct {
	Date        time.Time      `json:"date" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Reference   string         `json:"reference,omitempty"`
	Postings    []PostingInput `json:"postings" validate:"required,min=2,dive"`
}

// TransactionResponse mirrors domain.Transaction for API consumers.
type TransactionResponse struct {
	TransactionID          string                   `json:"transactionID"`
	Date                   time.Time                `json:"date"`
	Description            string                   `json:"description"`
	Reference              string                   `json:"reference,omitempty"`
	Status                 domain.TransactionStatus `json:"status"`
	OriginalTransactionID  *string                  `json:"originalTransactionID,omitempty"`
	ReversingTransactionID *string                  `json:"reversingTransactionID,omitempty"`
	Postings               []domain.Posting         `json:"postings,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:          txn.TransactionID,
		Date:                   txn.Date,
		Description:            txn.Description,
		Reference:              txn.Reference,
		Status:                 txn.Status,
		OriginalTransactionID:  txn.OriginalTransactionID,
		ReversingTransactionID: txn.ReversingTransactionID,
		Postings:               txn.Postings,
	}
}
