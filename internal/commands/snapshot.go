package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plata-app/plata-core/internal/core/domain"
)

func newSnapshotCommand() *cobra.Command {
	var period string
	var dateStr string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Materialize account balance snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			var snapshots []domain.AccountSnapshot
			switch period {
			case "daily":
				date, err := time.Parse(time.DateOnly, dateStr)
				if err != nil {
					return fmt.Errorf("parsing --date: %w", err)
				}
				snapshots, err = a.services.Closing.GenerateDailySnapshots(a.ctx, date)
				if err != nil {
					return err
				}
			case "monthly":
				month, err := time.Parse("2006-01", dateStr)
				if err != nil {
					return fmt.Errorf("parsing --date as YYYY-MM: %w", err)
				}
				snapshots, err = a.services.Closing.GenerateMonthlySnapshots(a.ctx, month.Year(), month.Month())
				if err != nil {
					return err
				}
			case "yearly":
				year, err := time.Parse("2006", dateStr)
				if err != nil {
					return fmt.Errorf("parsing --date as YYYY: %w", err)
				}
				snapshots, err = a.services.Closing.GenerateYearlySnapshots(a.ctx, year.Year())
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown --period %q (want daily, monthly or yearly)", period)
			}

			fmt.Printf("materialized %d snapshots\n", len(snapshots))
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "monthly", "snapshot granularity: daily, monthly or yearly")
	cmd.Flags().StringVar(&dateStr, "date", "", "snapshot date: YYYY-MM-DD, YYYY-MM or YYYY depending on --period")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
