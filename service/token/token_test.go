package token

import (
	"context"
	"errors"
	"testing"

	"synth/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerTransferFrom(t *testing.T) {
	ctx := context.Background()
	l := NewLedger("WETH")
	l.Credit("alice", decimal.NewFromInt(100))

	_, err := l.TransferFrom(ctx, "engine", "alice", "engine", decimal.NewFromInt(10))
	assert.True(t, errors.Is(err, core.ErrInsufficientAllowance))

	require.Nil(t, l.Approve(ctx, "alice", "engine", decimal.NewFromInt(30)))
	ok, err := l.TransferFrom(ctx, "engine", "alice", "engine", decimal.NewFromInt(10))
	require.Nil(t, err)
	assert.True(t, ok)
	assert.True(t, l.Allowance(ctx, "alice", "engine").Equal(decimal.NewFromInt(20)))

	balance, _ := l.BalanceOf(ctx, "alice")
	assert.True(t, balance.Equal(decimal.NewFromInt(90)))
	balance, _ = l.BalanceOf(ctx, "engine")
	assert.True(t, balance.Equal(decimal.NewFromInt(10)))

	supply, _ := l.TotalSupply(ctx)
	assert.True(t, supply.Equal(decimal.NewFromInt(100)))
}

func TestLedgerTransfer(t *testing.T) {
	ctx := context.Background()
	l := NewLedger("WETH")
	l.Credit("alice", decimal.NewFromInt(5))

	_, err := l.Transfer(ctx, "alice", "bob", decimal.NewFromInt(6))
	assert.True(t, errors.Is(err, core.ErrInsufficientBalance))

	ok, err := l.Transfer(ctx, "alice", "bob", decimal.NewFromInt(5))
	require.Nil(t, err)
	assert.True(t, ok)

	_, err = l.Transfer(ctx, "bob", "alice", decimal.NewFromInt(-1))
	assert.Equal(t, core.ErrInvalidAmount, err)
}

func TestSyntheticOwnerGate(t *testing.T) {
	ctx := context.Background()
	s := NewSynthetic("DSC", "engine")
	assert.Equal(t, "engine", s.Owner())

	_, err := s.Mint(ctx, "mallory", "mallory", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrNotOwner, err)

	_, err = s.Mint(ctx, "engine", "alice", decimal.Zero)
	assert.Equal(t, core.ErrNeedsMoreThanZero, err)

	ok, err := s.Mint(ctx, "engine", "alice", decimal.NewFromInt(50))
	require.Nil(t, err)
	assert.True(t, ok)

	assert.Equal(t, core.ErrNotOwner, s.Burn(ctx, "alice", decimal.NewFromInt(1)))

	err = s.Burn(ctx, "engine", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, core.ErrBurnAmountExceedsBalance))

	_, err = s.Transfer(ctx, "alice", "engine", decimal.NewFromInt(20))
	require.Nil(t, err)
	require.Nil(t, s.Burn(ctx, "engine", decimal.NewFromInt(20)))

	supply, _ := s.TotalSupply(ctx)
	assert.True(t, supply.Equal(decimal.NewFromInt(30)))
}

func TestLedgers(t *testing.T) {
	weth := NewLedger("WETH")
	ledgers := Ledgers{"weth": weth}

	l, ok := ledgers.Ledger("weth")
	assert.True(t, ok)
	assert.Equal(t, weth, l)

	_, ok = ledgers.Ledger("doge")
	assert.False(t, ok)
}
