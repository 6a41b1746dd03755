package services

import (
	"context"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
)

// ReportingSvc builds financial statements. All methods are read-only and
// deterministic for identical ledger state and date parameters; absence of
// activity yields zero-valued totals, never an error.
type ReportingSvc interface {
	// TrialBalance lists every account's balance as of a date with debit and
	// credit column totals.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// BalanceSheet groups balances by nature, folding all-history net income
	// into equity as retained earnings.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)

	// IncomeStatement reports income and expense activity strictly within
	// [from, to].
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error)

	// NetWorth is total assets minus total liabilities as of a date.
	NetWorth(ctx context.Context, asOf time.Time) (*domain.NetWorthReport, error)

	// Cashflow reports income credit inflows and expense debit outflows over
	// [from, to].
	Cashflow(ctx context.Context, from, to time.Time) (*domain.CashflowStatement, error)
}
