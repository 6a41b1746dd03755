package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	"github.com/plata-app/plata-core/internal/dto"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a starter chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			return runSeed(a)
		},
	}
}

// starterChart is a minimal personal chart of accounts in the base currency.
// The FX gain/loss account code comes from config so revaluation finds it.
func starterChart(baseCurrency, fxGainLossCode string) []dto.CreateAccountRequest {
	return []dto.CreateAccountRequest{
		{Name: "Cash", Code: "CASH", Nature: domain.Asset, CurrencyCode: baseCurrency},
		{Name: "Bank", Code: "BANK", Nature: domain.Asset, CurrencyCode: baseCurrency},
		{Name: "Credit Card", Code: "CC", Nature: domain.Liability, CurrencyCode: baseCurrency},
		{Name: "Opening Balances", Code: "OPEN", Nature: domain.Equity, CurrencyCode: baseCurrency},
		{Name: "Retained Earnings", Code: "RE", Nature: domain.Equity, CurrencyCode: baseCurrency},
		{Name: "FX Gain/Loss", Code: fxGainLossCode, Nature: domain.Income, CurrencyCode: baseCurrency,
			Description: "Unrealized FX gains and losses from month-end revaluation"},
		{Name: "Salary", Code: "SALARY", Nature: domain.Income, CurrencyCode: baseCurrency},
		{Name: "Rent", Code: "RENT", Nature: domain.Expense, CurrencyCode: baseCurrency},
		{Name: "Groceries", Code: "GROC", Nature: domain.Expense, CurrencyCode: baseCurrency},
	}
}

func runSeed(a *app) error {
	for _, req := range starterChart(a.cfg.BaseCurrencyCode, a.cfg.FxGainLossAccountCode) {
		acc, err := a.services.Accounts.CreateAccount(a.ctx, req)
		if errors.Is(err, apperrors.ErrDuplicateCode) {
			continue // already seeded
		}
		if err != nil {
			return fmt.Errorf("seeding account %s: %w", req.Code, err)
		}
		fmt.Printf("created %s (%s)\n", acc.Code, acc.AccountID)
	}
	return nil
}
