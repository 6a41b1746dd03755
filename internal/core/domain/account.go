package domain

// AccountNature defines the fundamental accounting classification of an account.
type AccountNature string

const (
	Asset     AccountNature = "ASSET"
	Liability AccountNature = "LIABILITY"
	Equity    AccountNature = "EQUITY"
	Income    AccountNature = "INCOME"
	Expense   AccountNature = "EXPENSE"
)

// ValidNature reports whether n is one of the five recognized natures.
func ValidNature(n AccountNature) bool {
	switch n {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether accounts of this nature carry a positive
// balance on the debit side (asset/expense) as opposed to the credit side
// (liability/equity/income).
func (n AccountNature) IsDebitNormal() bool {
	return n == Asset || n == Expense
}

// Account represents one entry of the chart of accounts. Accounts form an
// optional tree via ParentAccountID for roll-up reporting; the tree is
// validated to be acyclic at assignment time. An account's nature is immutable
// once postings exist against it, and accounts with postings are deactivated
// rather than deleted.
type Account struct {
	AccountID       string        `json:"accountID"`
	Name            string        `json:"name"`
	Code            string        `json:"code"` // unique, user-facing short code
	Nature          AccountNature `json:"nature"`
	CurrencyCode    string        `json:"currencyCode"`
	ParentAccountID string        `json:"parentAccountID,omitempty"`
	Description     string        `json:"description,omitempty"`
	IsActive        bool          `json:"isActive"`
	AuditFields
}
