package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plata-app/plata-core/internal/dto"
)

func newAccountsCommand() *cobra.Command {
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the chart of accounts as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			accounts, err := a.services.Accounts.ListAccounts(a.ctx, includeInactive)
			if err != nil {
				return err
			}

			responses := make([]dto.AccountResponse, 0, len(accounts))
			for i := range accounts {
				responses = append(responses, dto.ToAccountResponse(&accounts[i]))
			}

			out, err := json.MarshalIndent(responses, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding accounts: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeInactive, "all", false, "include inactive accounts")

	return cmd
}
