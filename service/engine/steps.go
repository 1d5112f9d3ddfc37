package engine

import (
	"context"
	"fmt"

	"synth/core"

	"github.com/shopspring/decimal"
)

func transferred(ok bool, err error) error {
	if err != nil {
		return err
	}

	if !ok {
		return core.ErrTransferFailed
	}

	return nil
}

// pullCollateral moves amount of the asset from the user into the engine
func (e *engine) pullCollateral(op *operation, ledger core.IAssetLedger, userID, assetID string, amount decimal.Decimal) {
	op.then(fmt.Sprintf("ledger(%s).TransferFrom", assetID),
		func(ctx context.Context) error {
			return transferred(ledger.TransferFrom(ctx, e.id, userID, e.id, amount))
		},
		func(ctx context.Context) error {
			return transferred(ledger.Transfer(ctx, e.id, userID, amount))
		},
	)
}

// pushCollateral moves amount of the asset from the engine to the user
func (e *engine) pushCollateral(op *operation, ledger core.IAssetLedger, userID, assetID string, amount decimal.Decimal) {
	op.then(fmt.Sprintf("ledger(%s).Transfer", assetID),
		func(ctx context.Context) error {
			return transferred(ledger.Transfer(ctx, e.id, userID, amount))
		},
		func(ctx context.Context) error {
			return transferred(ledger.Transfer(ctx, userID, e.id, amount))
		},
	)
}

// mint issues new synthetic to the user
func (e *engine) mint(op *operation, userID string, amount decimal.Decimal) {
	op.then("synthetic.Mint",
		func(ctx context.Context) error {
			ok, err := e.synthetic.Mint(ctx, e.id, userID, amount)
			if err != nil {
				return err
			}

			if !ok {
				return core.ErrMintFailed
			}

			return nil
		},
		func(ctx context.Context) error {
			if err := transferred(e.synthetic.Transfer(ctx, userID, e.id, amount)); err != nil {
				return err
			}

			return e.synthetic.Burn(ctx, e.id, amount)
		},
	)
}

// burn pulls synthetic from payer into the engine and destroys it
func (e *engine) burn(op *operation, payer string, amount decimal.Decimal) {
	op.then("synthetic.TransferFrom",
		func(ctx context.Context) error {
			return transferred(e.synthetic.TransferFrom(ctx, e.id, payer, e.id, amount))
		},
		func(ctx context.Context) error {
			return transferred(e.synthetic.Transfer(ctx, e.id, payer, amount))
		},
	)

	op.then("synthetic.Burn",
		func(ctx context.Context) error {
			return e.synthetic.Burn(ctx, e.id, amount)
		},
		func(ctx context.Context) error {
			ok, err := e.synthetic.Mint(ctx, e.id, e.id, amount)
			if err != nil {
				return err
			}

			if !ok {
				return core.ErrMintFailed
			}

			return nil
		},
	)
}
