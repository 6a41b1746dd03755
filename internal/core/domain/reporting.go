package domain

import "time"

// Report amounts are base-currency minor units throughout: statements
// aggregate booked amounts, never native ones.

// TrialBalanceRow is one account's balance placed on its debit or credit side.
type TrialBalanceRow struct {
	AccountID   string        `json:"accountID"`
	AccountName string        `json:"accountName"`
	AccountCode string        `json:"accountCode"`
	Nature      AccountNature `json:"nature"`
	DebitMinor  int64         `json:"debitMinor"`
	CreditMinor int64         `json:"creditMinor"`
}

// TrialBalanceTotals sums both columns of the trial balance.
type TrialBalanceTotals struct {
	DebitsMinor  int64 `json:"debitsMinor"`
	CreditsMinor int64 `json:"creditsMinor"`
	IsBalanced   bool  `json:"isBalanced"`
}

// TrialBalance lists every account's balance as of a date.
type TrialBalance struct {
	AsOf   time.Time          `json:"asOf"`
	Rows   []TrialBalanceRow  `json:"rows"`
	Totals TrialBalanceTotals `json:"totals"`
}

// AccountBalanceLine is an account with its normal-balance-signed booked amount.
type AccountBalanceLine struct {
	AccountID   string `json:"accountID"`
	AccountName string `json:"accountName"`
	AccountCode string `json:"accountCode"`
	AmountMinor int64  `json:"amountMinor"`
}

// BalanceSheetTotals carries the balance sheet equation pieces. Retained
// earnings is all-history income minus expenses up to the report date, so the
// sheet balances even before income/expense accounts are formally closed.
type BalanceSheetTotals struct {
	TotalAssetsMinor       int64 `json:"totalAssetsMinor"`
	TotalLiabilitiesMinor  int64 `json:"totalLiabilitiesMinor"`
	TotalEquityMinor       int64 `json:"totalEquityMinor"`
	RetainedEarningsMinor  int64 `json:"retainedEarningsMinor"`
	TotalWithRetainedMinor int64 `json:"totalWithRetainedMinor"`
	IsBalanced             bool  `json:"isBalanced"`
}

// BalanceSheet groups account balances by nature as of a date.
type BalanceSheet struct {
	AsOf        time.Time            `json:"asOf"`
	Assets      []AccountBalanceLine `json:"assets"`
	Liabilities []AccountBalanceLine `json:"liabilities"`
	Equity      []AccountBalanceLine `json:"equity"`
	Totals      BalanceSheetTotals   `json:"totals"`
}

// IncomeStatement reports income and expense activity strictly within a range.
type IncomeStatement struct {
	From               time.Time            `json:"from"`
	To                 time.Time            `json:"to"`
	Income             []AccountBalanceLine `json:"income"`
	Expenses           []AccountBalanceLine `json:"expenses"`
	TotalIncomeMinor   int64                `json:"totalIncomeMinor"`
	TotalExpensesMinor int64                `json:"totalExpensesMinor"`
	NetIncomeMinor     int64                `json:"netIncomeMinor"`
}

// NetWorthReport is assets minus liabilities at a date.
type NetWorthReport struct {
	AsOf                  time.Time `json:"asOf"`
	TotalAssetsMinor      int64     `json:"totalAssetsMinor"`
	TotalLiabilitiesMinor int64     `json:"totalLiabilitiesMinor"`
	NetWorthMinor         int64     `json:"netWorthMinor"`
}

// CashflowStatement reports income-credit inflows and expense-debit outflows
// over a range.
type CashflowStatement struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	InflowsMinor  int64     `json:"inflowsMinor"`
	OutflowsMinor int64     `json:"outflowsMinor"`
	NetMinor      int64     `json:"netMinor"`
}

// AccountActivity is a repository-level aggregate: the raw debit and credit
// booked sums for one account over some date window.
type AccountActivity struct {
	AccountID   string `json:"accountID"`
	DebitMinor  int64  `json:"debitMinor"`
	CreditMinor int64  `json:"creditMinor"`
}

// NormalBalance returns the activity's net amount signed by the account
// nature's normal-balance convention.
func (a AccountActivity) NormalBalance(nature AccountNature) int64 {
	if nature.IsDebitNormal() {
		return a.DebitMinor - a.CreditMinor
	}
	return a.CreditMinor - a.DebitMinor
}
