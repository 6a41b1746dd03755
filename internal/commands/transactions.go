package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plata-app/plata-core/internal/dto"
)

func newTransactionsCommand() *cobra.Command {
	var (
		accountCode string
		fromStr     string
		toStr       string
	)

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List an account's transactions in a date range as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse(time.DateOnly, fromStr)
			if err != nil {
				return fmt.Errorf("parsing --from as YYYY-MM-DD: %w", err)
			}
			to, err := time.Parse(time.DateOnly, toStr)
			if err != nil {
				return fmt.Errorf("parsing --to as YYYY-MM-DD: %w", err)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			account, err := a.services.Accounts.GetAccountByCode(a.ctx, accountCode)
			if err != nil {
				return err
			}

			txns, err := a.services.Ledger.ListTransactionsByAccount(a.ctx, account.AccountID, from, to)
			if err != nil {
				return err
			}

			responses := make([]dto.TransactionResponse, 0, len(txns))
			for i := range txns {
				responses = append(responses, dto.ToTransactionResponse(&txns[i]))
			}

			out, err := json.MarshalIndent(responses, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding transactions: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountCode, "account", "", "account code")
	cmd.Flags().StringVar(&fromStr, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "range end (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
