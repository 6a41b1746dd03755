package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plata-app/plata-core/internal/core/domain"
)

func newCloseCommand() *cobra.Command {
	var monthStr string
	var yearStr string
	var retainedEarningsCode string

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close an accounting period into retained earnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (monthStr == "") == (yearStr == "") {
				return fmt.Errorf("exactly one of --month or --year is required")
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			re, err := a.services.Accounts.GetAccountByCode(a.ctx, retainedEarningsCode)
			if err != nil {
				return fmt.Errorf("resolving retained earnings account %q: %w", retainedEarningsCode, err)
			}

			var entry *domain.ClosingEntry
			if monthStr != "" {
				month, err := time.Parse("2006-01", monthStr)
				if err != nil {
					return fmt.Errorf("parsing --month as YYYY-MM: %w", err)
				}
				entry, err = a.services.Closing.CloseMonth(a.ctx, month.Year(), month.Month(), re.AccountID)
				if err != nil {
					return err
				}
			} else {
				year, err := time.Parse("2006", yearStr)
				if err != nil {
					return fmt.Errorf("parsing --year as YYYY: %w", err)
				}
				entry, err = a.services.Closing.CloseYear(a.ctx, year.Year(), re.AccountID)
				if err != nil {
					return err
				}
			}

			fmt.Printf("closed %s period ending %s, net income %s\n",
				entry.PeriodType, entry.Date.Format(time.DateOnly), entry.NetIncome)
			return nil
		},
	}

	cmd.Flags().StringVar(&monthStr, "month", "", "month to close (YYYY-MM)")
	cmd.Flags().StringVar(&yearStr, "year", "", "year to close (YYYY)")
	cmd.Flags().StringVar(&retainedEarningsCode, "retained-earnings", "RE", "retained earnings account code")

	return cmd
}
