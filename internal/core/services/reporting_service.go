package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
	portssvc "github.com/plata-app/plata-core/internal/core/ports/services"
)

// reportingService builds financial statements from booked-amount aggregates.
// Every method is a pure read: identical ledger state and dates yield
// identical reports, and absence of activity yields zero totals rather than
// an error.
type reportingService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	activityRepo portsrepo.ActivityReader
	base         domain.Currency
}

// NewReportingService creates a new ReportingSvc.
func NewReportingService(accountRepo portsrepo.AccountReader, activityRepo portsrepo.ActivityReader, registry *domain.CurrencyRegistry, baseCurrencyCode string) (portssvc.ReportingSvc, error) {
	base, err := registry.Get(baseCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("base currency: %w", err)
	}
	return &reportingService{
		accountRepo:  accountRepo,
		activityRepo: activityRepo,
		base:         base,
	}, nil
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// sortedAccounts lists all accounts ordered by code for deterministic report rows.
func (s *reportingService) sortedAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	day := domain.DateOnly(asOf)
	accounts, err := s.sortedAccounts(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.activityRepo.GetActivityAsOf(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate postings: %w", err)
	}

	report := &domain.TrialBalance{AsOf: day, Rows: make([]domain.TrialBalanceRow, 0, len(accounts))}
	for _, acc := range accounts {
		act := activity[acc.AccountID]
		row := domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			AccountName: acc.Name,
			AccountCode: acc.Code,
			Nature:      acc.Nature,
		}
		// The residual balance lands on whichever side it naturally falls.
		if net := act.DebitMinor - act.CreditMinor; net >= 0 {
			row.DebitMinor = net
		} else {
			row.CreditMinor = -net
		}
		report.Totals.DebitsMinor += row.DebitMinor
		report.Totals.CreditsMinor += row.CreditMinor
		report.Rows = append(report.Rows, row)
	}
	report.Totals.IsBalanced = report.Totals.DebitsMinor == report.Totals.CreditsMinor
	return report, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	day := domain.DateOnly(asOf)
	accounts, err := s.sortedAccounts(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.activityRepo.GetActivityAsOf(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate postings: %w", err)
	}

	report := &domain.BalanceSheet{AsOf: day}
	var totalIncome, totalExpenses int64
	for _, acc := range accounts {
		balance := activity[acc.AccountID].NormalBalance(acc.Nature)
		line := domain.AccountBalanceLine{
			AccountID:   acc.AccountID,
			AccountName: acc.Name,
			AccountCode: acc.Code,
			AmountMinor: balance,
		}
		switch acc.Nature {
		case domain.Asset:
			report.Assets = append(report.Assets, line)
			report.Totals.TotalAssetsMinor += balance
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, line)
			report.Totals.TotalLiabilitiesMinor += balance
		case domain.Equity:
			report.Equity = append(report.Equity, line)
			report.Totals.TotalEquityMinor += balance
		case domain.Income:
			totalIncome += balance
		case domain.Expense:
			totalExpenses += balance
		}
	}

	// Retained earnings folds all-history net income into equity so the sheet
	// balances even before the income/expense accounts are formally closed.
	report.Totals.RetainedEarningsMinor = totalIncome - totalExpenses
	report.Totals.TotalWithRetainedMinor = report.Totals.TotalEquityMinor + report.Totals.RetainedEarningsMinor
	report.Totals.IsBalanced = report.Totals.TotalAssetsMinor ==
		report.Totals.TotalLiabilitiesMinor+report.Totals.TotalWithRetainedMinor
	return report, nil
}

func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	fromDay, toDay := domain.DateOnly(from), domain.DateOnly(to)
	accounts, err := s.sortedAccounts(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.activityRepo.GetActivityInRange(ctx, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate postings: %w", err)
	}

	report := &domain.IncomeStatement{From: fromDay, To: toDay}
	for _, acc := range accounts {
		if acc.Nature != domain.Income && acc.Nature != domain.Expense {
			continue
		}
		net := activity[acc.AccountID].NormalBalance(acc.Nature)
		line := domain.AccountBalanceLine{
			AccountID:   acc.AccountID,
			AccountName: acc.Name,
			AccountCode: acc.Code,
			AmountMinor: net,
		}
		if acc.Nature == domain.Income {
			report.Income = append(report.Income, line)
			report.TotalIncomeMinor += net
		} else {
			report.Expenses = append(report.Expenses, line)
			report.TotalExpensesMinor += net
		}
	}
	report.NetIncomeMinor = report.TotalIncomeMinor - report.TotalExpensesMinor
	return report, nil
}

func (s *reportingService) NetWorth(ctx context.Context, asOf time.Time) (*domain.NetWorthReport, error) {
	sheet, err := s.BalanceSheet(ctx, asOf)
	if err != nil {
		return nil, err
	}
	return &domain.NetWorthReport{
		AsOf:                  sheet.AsOf,
		TotalAssetsMinor:      sheet.Totals.TotalAssetsMinor,
		TotalLiabilitiesMinor: sheet.Totals.TotalLiabilitiesMinor,
		NetWorthMinor:         sheet.Totals.TotalAssetsMinor - sheet.Totals.TotalLiabilitiesMinor,
	}, nil
}

func (s *reportingService) Cashflow(ctx context.Context, from, to time.Time) (*domain.CashflowStatement, error) {
	fromDay, toDay := domain.DateOnly(from), domain.DateOnly(to)
	accounts, err := s.sortedAccounts(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.activityRepo.GetActivityInRange(ctx, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate postings: %w", err)
	}

	report := &domain.CashflowStatement{From: fromDay, To: toDay}
	for _, acc := range accounts {
		act := activity[acc.AccountID]
		switch acc.Nature {
		case domain.Income:
			report.InflowsMinor += act.CreditMinor
		case domain.Expense:
			report.OutflowsMinor += act.DebitMinor
		}
	}
	report.NetMinor = report.InflowsMinor - report.OutflowsMinor
	return report, nil
}
