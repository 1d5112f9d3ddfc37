package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IAssetLedger fungible balance ledger of a collateral asset
type IAssetLedger interface {
	TransferFrom(ctx context.Context, spender, from, to string, amount decimal.Decimal) (bool, error)
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (bool, error)
	Approve(ctx context.Context, owner, spender string, amount decimal.Decimal) error
	BalanceOf(ctx context.Context, owner string) (decimal.Decimal, error)
}

// IAssetLedgers resolves the ledger of a collateral asset
type IAssetLedgers interface {
	Ledger(assetID string) (IAssetLedger, bool)
}

// ISyntheticToken the pegged token, mint and burn gated to its owner
type ISyntheticToken interface {
	IAssetLedger
	Mint(ctx context.Context, caller, to string, amount decimal.Decimal) (bool, error)
	Burn(ctx context.Context, caller string, amount decimal.Decimal) error
	Owner() string
	TotalSupply(ctx context.Context) (decimal.Decimal, error)
}
