package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRevalueCommand() *cobra.Command {
	var monthStr string

	cmd := &cobra.Command{
		Use:   "revalue",
		Short: "Run month-end FX revaluation of foreign-currency accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := time.Parse("2006-01", monthStr)
			if err != nil {
				return fmt.Errorf("parsing --month as YYYY-MM: %w", err)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			txns, err := a.services.Fx.RevalueMonthEnd(a.ctx, month.Year(), month.Month())
			if err != nil {
				return err
			}

			if len(txns) == 0 {
				fmt.Println("no revaluation needed")
				return nil
			}
			for _, txn := range txns {
				fmt.Printf("posted %s (%s)\n", txn.Reference, txn.TransactionID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&monthStr, "month", "", "month to revalue (YYYY-MM)")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}
