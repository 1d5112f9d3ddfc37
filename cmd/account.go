package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account <user>",
	Short: "collateral, debt and health factor of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a := provideApp(ctx)
		defer a.close()

		account, err := a.engine.AccountInformation(ctx, args[0])
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		transactions, err := a.engine.Transactions(ctx, args[0], 0, limit)
		if err != nil {
			return err
		}

		data, _ := json.MarshalIndent(map[string]interface{}{
			"account":      account,
			"liquidatable": account.HealthFactor.LessThan(a.engine.Parameters().MinHealthFactor),
			"transactions": transactions,
		}, "", "  ")
		cmd.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().Int("limit", 20, "recent transactions to show")
}
