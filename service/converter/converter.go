package converter

import (
	"context"

	"synth/core"
	"synth/pkg/number"
	"synth/pkg/synth"

	"github.com/shopspring/decimal"
)

type converter struct {
	registry core.IAssetRegistry
	guard    core.IPriceGuard
}

// New price converter, every conversion reads a fresh guarded price
func New(registry core.IAssetRegistry, guard core.IPriceGuard) core.IPriceConverter {
	return &converter{
		registry: registry,
		guard:    guard,
	}
}

// UsdValue amount * price * 1e18 / (10^asset_decimals * 10^feed_decimals)
func (c *converter) UsdValue(ctx context.Context, assetID string, amount decimal.Decimal) (decimal.Decimal, error) {
	asset, price, err := c.price(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	return number.MulDiv(amount.Mul(price), synth.Precision, scale(asset)), nil
}

// AssetAmountFromUsd usd * 10^asset_decimals * 10^feed_decimals / (price * 1e18)
func (c *converter) AssetAmountFromUsd(ctx context.Context, assetID string, usdAmount decimal.Decimal) (decimal.Decimal, error) {
	asset, price, err := c.price(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	return number.MulDiv(usdAmount, scale(asset), price.Mul(synth.Precision)), nil
}

func (c *converter) price(ctx context.Context, assetID string) (*core.SupportedAsset, decimal.Decimal, error) {
	asset, ok := c.registry.Find(assetID)
	if err := synth.Require(ok, core.ErrUnsupportedAsset, assetID); err != nil {
		return nil, decimal.Zero, err
	}

	p, err := c.guard.Latest(ctx, asset.PriceFeed)
	if err != nil {
		return nil, decimal.Zero, err
	}

	return asset, p.Price, nil
}

func scale(asset *core.SupportedAsset) decimal.Decimal {
	return number.Pow10(asset.Decimals + asset.FeedDecimals)
}
