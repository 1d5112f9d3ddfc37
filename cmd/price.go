package cmd

import (
	"encoding/json"

	"synth/pkg/number"

	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price <asset>",
	Short: "guarded price of a collateral asset and the usd value of one unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a := provideApp(ctx)
		defer a.close()

		assetID := args[0]
		feed, ok := a.engine.CollateralPriceFeed(assetID)
		if !ok {
			cmd.PrintErrln("unsupported asset", assetID)
			return nil
		}

		point, err := a.guard.Latest(ctx, feed)
		if err != nil {
			return err
		}

		var decimals int32
		for _, asset := range a.engine.CollateralAssets() {
			if asset.AssetID == assetID {
				decimals = asset.Decimals
			}
		}

		usd, err := a.engine.UsdValue(ctx, assetID, number.Pow10(decimals))
		if err != nil {
			return err
		}

		data, _ := json.MarshalIndent(map[string]interface{}{
			"asset_id":   assetID,
			"feed":       feed,
			"price":      point.Price,
			"updated_at": point.UpdatedAt,
			"usd_value":  usd,
		}, "", "  ")
		cmd.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(priceCmd)
}
