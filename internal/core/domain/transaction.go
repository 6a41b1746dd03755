package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether a posting is a debit or a credit line.
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// Opposite returns the inverting direction, used when reversing transactions.
func (d Direction) Opposite() Direction {
	if d == Debit {
		return Credit
	}
	return Debit
}

// TransactionStatus indicates the state of a transaction.
type TransactionStatus string

const (
	Posted   TransactionStatus = "POSTED"
	Reversed TransactionStatus = "REVERSED"
)

// Transaction is a single, balanced financial event composed of two or more
// postings. Transactions are append-only: corrections are modeled as new
// reversing transactions linked through OriginalTransactionID and
// ReversingTransactionID, never as in-place edits.
type Transaction struct {
	TransactionID          string            `json:"transactionID"`
	Date                   time.Time         `json:"date"` // day granularity, midnight UTC
	Description            string            `json:"description"`
	Reference              string            `json:"reference,omitempty"`
	Status                 TransactionStatus `json:"status"`
	OriginalTransactionID  *string           `json:"originalTransactionID,omitempty"`
	ReversingTransactionID *string           `json:"reversingTransactionID,omitempty"`
	Postings               []Posting         `json:"postings,omitempty"`
	AuditFields
}

// Posting is one line of a transaction, affecting exactly one account.
// NativeAmount is denominated in the account's own currency; BookedAmount is
// the base-currency value at FxRate and is what participates in the zero-sum
// invariant and in statement aggregation. Both amounts are non-negative;
// Direction carries the sign. A zero native amount with a non-zero booked
// amount is legal and is how FX revaluation adjustments are recorded.
type Posting struct {
	PostingID     string          `json:"postingID"`
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Direction     Direction       `json:"direction"`
	NativeAmount  Money           `json:"nativeAmount"`
	BookedAmount  Money           `json:"bookedAmount"`
	FxRate        decimal.Decimal `json:"fxRate"` // native -> base; 1 for base-currency postings
	Date          time.Time       `json:"date"`   // denormalized transaction date, for balance queries
	AuditFields
}

// SignedBookedMinor returns the posting's booked amount signed by the given
// nature's normal-balance convention: positive when the posting increases the
// account's normal balance.
func (p Posting) SignedBookedMinor(nature AccountNature) int64 {
	amount := p.BookedAmount.MinorUnits()
	if (p.Direction == Debit) == nature.IsDebitNormal() {
		return amount
	}
	return -amount
}
