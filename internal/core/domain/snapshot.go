package domain

import "time"

// AccountSnapshot is a materialized point-in-time balance for one account.
// Snapshots are derived artifacts: always reproducible by replaying postings
// up to Date, never a source of truth, and safe to regenerate in place.
type AccountSnapshot struct {
	SnapshotID string     `json:"snapshotID"`
	AccountID  string     `json:"accountID"`
	Balance    Money      `json:"balance"` // booked (base-currency) balance, normal-balance signed
	Date       time.Time  `json:"date"`
	PeriodType PeriodType `json:"periodType"`
	AuditFields
}

// ClosingEntry records the outcome of a period close: the net income rolled
// into retained earnings and the closing transaction(s) that performed it.
type ClosingEntry struct {
	ClosingID                 string     `json:"closingID"`
	Date                      time.Time  `json:"date"` // period end date
	PeriodType                PeriodType `json:"periodType"`
	RetainedEarningsAccountID string     `json:"retainedEarningsAccountID"`
	NetIncome                 Money      `json:"netIncome"`
	TransactionIDs            []string   `json:"transactionIDs"`
	AuditFields
}
