package engine

import (
	"context"
	"errors"
	"testing"

	"synth/core"
	"synth/pkg/synth"
	"synth/service/converter"
	"synth/service/oracle"
	"synth/service/priceguard"
	"synth/service/registry"
	"synth/service/token"
	"synth/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engineID = "engine"

var unlimited = ether(1000000000)

func ether(n int64) decimal.Decimal {
	return decimal.New(n, 18)
}

func price(usd int64) decimal.Decimal {
	return decimal.New(usd, 8)
}

type suite struct {
	ctx       context.Context
	engine    core.IEngine
	store     core.IPositionStore
	weth      *token.Ledger
	wbtc      *token.Ledger
	synthetic *token.Synthetic
	eth       *oracle.MockFeed
	btc       *oracle.MockFeed
}

type option func(s *suite, ledgers token.Ledgers) (token.Ledgers, core.ISyntheticToken)

func setup(t *testing.T, opts ...option) *suite {
	t.Helper()

	reg, err := registry.NewWithAssets([]*core.SupportedAsset{
		{AssetID: "weth", Symbol: "WETH", PriceFeed: "eth-usd", Decimals: 18, FeedDecimals: 8},
		{AssetID: "wbtc", Symbol: "WBTC", PriceFeed: "btc-usd", Decimals: 8, FeedDecimals: 8},
	})
	require.NoError(t, err)

	s := &suite{
		ctx:       context.Background(),
		store:     memory.New(),
		weth:      token.NewLedger("WETH"),
		wbtc:      token.NewLedger("WBTC"),
		synthetic: token.NewSynthetic("DSC", engineID),
		eth:       oracle.NewMockFeed(price(2000)),
		btc:       oracle.NewMockFeed(price(30000)),
	}

	guard := priceguard.New(oracle.Feeds{"eth-usd": s.eth, "btc-usd": s.btc})
	ledgers := token.Ledgers{"weth": s.weth, "wbtc": s.wbtc}
	var synthetic core.ISyntheticToken = s.synthetic
	for _, opt := range opts {
		ledgers, synthetic = opt(s, ledgers)
	}

	s.engine, err = New(engineID, reg, guard, converter.New(reg, guard), s.store, ledgers, synthetic)
	require.NoError(t, err)
	return s
}

// fund credits user with collateral and approves the engine for everything
func (s *suite) fund(t *testing.T, userID string, weth decimal.Decimal) {
	t.Helper()

	s.weth.Credit(userID, weth)
	s.wbtc.Credit(userID, decimal.New(100, 8))
	require.NoError(t, s.weth.Approve(s.ctx, userID, engineID, unlimited))
	require.NoError(t, s.wbtc.Approve(s.ctx, userID, engineID, unlimited))
	require.NoError(t, s.synthetic.Approve(s.ctx, userID, engineID, unlimited))
}

func (s *suite) balance(t *testing.T, l core.IAssetLedger, owner string) decimal.Decimal {
	t.Helper()
	b, err := l.BalanceOf(s.ctx, owner)
	require.NoError(t, err)
	return b
}

func (s *suite) collateral(t *testing.T, userID, assetID string) decimal.Decimal {
	t.Helper()
	c, err := s.engine.UserCollateral(s.ctx, userID, assetID)
	require.NoError(t, err)
	return c
}

func (s *suite) debt(t *testing.T, userID string) decimal.Decimal {
	t.Helper()
	d, err := s.store.FindDebt(s.ctx, userID)
	require.NoError(t, err)
	return d
}

func assertDecimal(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, expected.Equal(actual), append([]interface{}{"expected %s, got %s", expected, actual}, msgAndArgs...)...)
}

func TestNew(t *testing.T) {
	reg, err := registry.New([]string{"weth"}, []string{"eth-usd"})
	require.NoError(t, err)

	guard := priceguard.New(oracle.Feeds{})
	conv := converter.New(reg, guard)

	_, err = New(engineID, reg, guard, conv, memory.New(), token.Ledgers{"weth": token.NewLedger("WETH")}, token.NewSynthetic("DSC", "someone"))
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	_, err = New(engineID, reg, guard, conv, memory.New(), token.Ledgers{}, token.NewSynthetic("DSC", engineID))
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	_, err = New("", reg, guard, conv, memory.New(), token.Ledgers{}, token.NewSynthetic("DSC", ""))
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	e, err := New(engineID, reg, guard, conv, memory.New(), token.Ledgers{"weth": token.NewLedger("WETH")}, token.NewSynthetic("DSC", engineID))
	require.NoError(t, err)

	feed, ok := e.CollateralPriceFeed("weth")
	assert.True(t, ok)
	assert.Equal(t, "eth-usd", feed)
	assert.Len(t, e.CollateralAssets(), 1)
	assert.Equal(t, engineID, e.SyntheticToken().Owner())

	params := e.Parameters()
	assertDecimal(t, synth.Precision, params.Precision)
	assertDecimal(t, decimal.NewFromInt(50), params.LiquidationThreshold)
	assertDecimal(t, decimal.NewFromInt(10), params.LiquidationBonus)
	assertDecimal(t, synth.MinHealthFactor, params.MinHealthFactor)
	assert.Equal(t, synth.StaleTimeout, params.StaleTimeout)
}

func TestDepositCollateral(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	require.NoError(t, s.engine.DepositCollateral(s.ctx, "alice", "weth", ether(10)))

	assertDecimal(t, ether(10), s.collateral(t, "alice", "weth"))
	assertDecimal(t, ether(90), s.balance(t, s.weth, "alice"))
	assertDecimal(t, ether(10), s.balance(t, s.weth, engineID))

	value, err := s.engine.AccountCollateralValue(s.ctx, "alice")
	require.NoError(t, err)
	assertDecimal(t, ether(20000), value)

	hf, err := s.engine.HealthFactor(s.ctx, "alice")
	require.NoError(t, err)
	assertDecimal(t, synth.MaxHealthFactor, hf)

	transactions, err := s.engine.Transactions(s.ctx, "alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, core.ActionTypeDeposit, transactions[0].Action)
	assertDecimal(t, ether(10), transactions[0].Amount)
}

func TestDepositCollateralRejected(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))
	s.weth.Credit("bob", ether(100))

	cases := []struct {
		name   string
		user   string
		asset  string
		amount decimal.Decimal
		code   core.ErrorCode
	}{
		{"zero", "alice", "weth", decimal.Zero, core.ErrNeedsMoreThanZero},
		{"negative", "alice", "weth", ether(-1), core.ErrNeedsMoreThanZero},
		{"fraction", "alice", "weth", decimal.RequireFromString("0.5"), core.ErrInvalidAmount},
		{"beyond uint256", "alice", "weth", synth.MaxHealthFactor.Add(decimal.NewFromInt(1)), core.ErrInvalidAmount},
		{"unsupported asset", "alice", "doge", ether(1), core.ErrUnsupportedAsset},
		{"empty user", "", "weth", ether(1), core.ErrInvalidUser},
		{"no allowance", "bob", "weth", ether(1), core.ErrInsufficientAllowance},
		{"no balance", "alice", "weth", ether(101), core.ErrInsufficientBalance},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := s.engine.DepositCollateral(s.ctx, c.user, c.asset, c.amount)
			assert.Equal(t, c.code, core.CodeOf(err))
		})
	}

	assert.True(t, s.collateral(t, "alice", "weth").IsZero())
	assert.True(t, s.collateral(t, "bob", "weth").IsZero())
	assert.True(t, s.balance(t, s.weth, engineID).IsZero())

	transactions, err := s.engine.Transactions(s.ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestUsdValue(t *testing.T) {
	s := setup(t)

	usd, err := s.engine.UsdValue(s.ctx, "weth", ether(15))
	require.NoError(t, err)
	assertDecimal(t, ether(30000), usd)

	amount, err := s.engine.TokenAmountFromUsd(s.ctx, "weth", ether(100))
	require.NoError(t, err)
	assertDecimal(t, decimal.New(5, 16), amount)

	_, err = s.engine.UsdValue(s.ctx, "doge", ether(1))
	assert.True(t, errors.Is(err, core.ErrUnsupportedAsset))
}

func TestCalculateHealthFactor(t *testing.T) {
	s := setup(t)

	assertDecimal(t, synth.MaxHealthFactor, s.engine.CalculateHealthFactor(decimal.Zero, ether(1)))
	assertDecimal(t, synth.MaxHealthFactor, s.engine.CalculateHealthFactor(decimal.Zero, decimal.Zero))
	assertDecimal(t, ether(2), s.engine.CalculateHealthFactor(ether(5000), ether(20000)))
}

func TestMintSynthetic(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	require.NoError(t, s.engine.DepositCollateral(s.ctx, "alice", "weth", ether(10)))
	require.NoError(t, s.engine.MintSynthetic(s.ctx, "alice", ether(5000)))

	hf, err := s.engine.HealthFactor(s.ctx, "alice")
	require.NoError(t, err)
	assertDecimal(t, synth.Precision.Mul(decimal.NewFromInt(2)), hf)

	account, err := s.engine.AccountInformation(s.ctx, "alice")
	require.NoError(t, err)
	assertDecimal(t, ether(5000), account.TotalDebt)
	assertDecimal(t, ether(20000), account.CollateralValueUSD)
	require.Len(t, account.Collaterals, 1)
	assert.Equal(t, "weth", account.Collaterals[0].AssetID)

	assertDecimal(t, ether(5000), s.balance(t, s.synthetic, "alice"))

	debtors, err := s.engine.Debtors(s.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, debtors)

	// exactly at the minimum is still healthy
	require.NoError(t, s.engine.MintSynthetic(s.ctx, "alice", ether(5000)))
	hf, err = s.engine.HealthFactor(s.ctx, "alice")
	require.NoError(t, err)
	assertDecimal(t, synth.MinHealthFactor, hf)
}

func TestMintSyntheticBreaksHealthFactor(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	require.NoError(t, s.engine.DepositCollateral(s.ctx, "alice", "weth", ether(10)))

	err := s.engine.MintSynthetic(s.ctx, "alice", ether(10001))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrBreaksHealthFactor))
	assert.Equal(t, core.SafetyViolation, core.CodeOf(err).Category())

	var hfErr *core.HealthFactorError
	require.True(t, errors.As(err, &hfErr))
	assert.Equal(t, "alice", hfErr.UserID)
	assert.True(t, hfErr.HealthFactor.LessThan(synth.MinHealthFactor))

	assert.True(t, s.debt(t, "alice").IsZero())
	assert.True(t, s.balance(t, s.synthetic, "alice").IsZero())

	// no collateral at all
	err = s.engine.MintSynthetic(s.ctx, "bob", ether(1))
	assert.True(t, errors.Is(err, core.ErrBreaksHealthFactor))
}

func TestRedeemCollateral(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	require.NoError(t, s.engine.DepositCollateral(s.ctx, "alice", "weth", ether(10)))
	require.NoError(t, s.engine.MintSynthetic(s.ctx, "alice", ether(5000)))

	require.NoError(t, s.engine.RedeemCollateral(s.ctx, "alice", "weth", ether(5)))
	assertDecimal(t, ether(5), s.collateral(t, "alice", "weth"))
	assertDecimal(t, ether(95), s.balance(t, s.weth, "alice"))

	err := s.engine.RedeemCollateral(s.ctx, "alice", "weth", ether(1))
	assert.True(t, errors.Is(err, core.ErrBreaksHealthFactor))
	assert.Equal(t, core.SafetyViolation, core.CodeOf(err).Category())

	assertDecimal(t, ether(5), s.collateral(t, "alice", "weth"))
	assertDecimal(t, ether(95), s.balance(t, s.weth, "alice"))
	assertDecimal(t, ether(5), s.balance(t, s.weth, engineID))
	assertDecimal(t, ether(5000), s.debt(t, "alice"))

	transactions, err := s.engine.Transactions(s.ctx, "alice", 0, 0)
	require.NoError(t, err)
	assert.Len(t, transactions, 3)
}

func TestRedeemCollateralInsufficient(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	require.NoError(t, s.engine.DepositCollateral(s.ctx, "alice", "weth", ether(10)))

	err := s.engine.RedeemCollateral(s.ctx, "alice", "weth", ether(11))
	assert.True(t, errors.Is(err, core.ErrInsufficientCollateral))

	err = s.engine.RedeemCollateral(s.ctx, "alice", "wbtc", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, core.ErrInsufficientCollateral))

	// no debt, everything can leave
	require.NoError(t, s.engine.RedeemCollateral(s.ctx, "alice", "weth", ether(10)))
	assert.True(t, s.collateral(t, "alice", "weth").IsZero())
	assertDecimal(t, ether(100), s.balance(t, s.weth, "alice"))
}

func TestBurnSynthetic(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	require.NoError(t, s.engine.DepositCollateral(s.ctx, "alice", "weth", ether(10)))
	require.NoError(t, s.engine.MintSynthetic(s.ctx, "alice", ether(5000)))

	require.NoError(t, s.engine.BurnSynthetic(s.ctx, "alice", ether(2000)))
	assertDecimal(t, ether(3000), s.debt(t, "alice"))
	assertDecimal(t, ether(3000), s.balance(t, s.synthetic, "alice"))

	supply, err := s.synthetic.TotalSupply(s.ctx)
	require.NoError(t, err)
	assertDecimal(t, ether(3000), supply)

	err = s.engine.BurnSynthetic(s.ctx, "alice", ether(3001))
	assert.True(t, errors.Is(err, core.ErrInsufficientDebt))

	// allowance withdrawn, the pull fails and the debt is restored
	require.NoError(t, s.synthetic.Approve(s.ctx, "alice", engineID, decimal.Zero))
	err = s.engine.BurnSynthetic(s.ctx, "alice", ether(1000))
	assert.True(t, errors.Is(err, core.ErrInsufficientAllowance))
	assertDecimal(t, ether(3000), s.debt(t, "alice"))
	assertDecimal(t, ether(3000), s.balance(t, s.synthetic, "alice"))
}

func TestBurnSyntheticBelowMinHealthFactor(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	require.NoError(t, s.engine.DepositCollateral(s.ctx, "alice", "weth", ether(10)))
	require.NoError(t, s.engine.MintSynthetic(s.ctx, "alice", ether(5000)))

	s.eth.UpdateAnswer(price(900))
	hf, err := s.engine.HealthFactor(s.ctx, "alice")
	require.NoError(t, err)
	assertDecimal(t, ether(1).Mul(decimal.RequireFromString("0.9")), hf)

	require.NoError(t, s.engine.BurnSynthetic(s.ctx, "alice", ether(100)))
	assertDecimal(t, ether(4900), s.debt(t, "alice"))
	assertDecimal(t, ether(4900), s.balance(t, s.synthetic, "alice"))

	transactions, err := s.engine.Transactions(s.ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 3)
	assert.Equal(t, core.ActionTypeBurn, transactions[2].Action)
}

func TestDepositCollateralAndMint(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	err := s.engine.DepositCollateralAndMint(s.ctx, "alice", "weth", ether(10), ether(10001))
	assert.True(t, errors.Is(err, core.ErrBreaksHealthFactor))
	assert.True(t, s.collateral(t, "alice", "weth").IsZero())
	assertDecimal(t, ether(100), s.balance(t, s.weth, "alice"))

	err = s.engine.DepositCollateralAndMint(s.ctx, "alice", "weth", ether(10), decimal.Zero)
	assert.Equal(t, core.ErrNeedsMoreThanZero, core.CodeOf(err))

	require.NoError(t, s.engine.DepositCollateralAndMint(s.ctx, "alice", "weth", ether(10), ether(5000)))
	assertDecimal(t, ether(10), s.collateral(t, "alice", "weth"))
	assertDecimal(t, ether(5000), s.debt(t, "alice"))
	assertDecimal(t, ether(5000), s.balance(t, s.synthetic, "alice"))

	transactions, err := s.engine.Transactions(s.ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, core.ActionTypeDepositAndMint, transactions[0].Action)

	var extra struct {
		Collateral decimal.Decimal `json:"collateral"`
		Debt       decimal.Decimal `json:"debt"`
		MintAmount decimal.Decimal `json:"mint_amount"`
	}
	require.NoError(t, transactions[0].UnmarshalExtraData(&extra))
	assertDecimal(t, ether(10), extra.Collateral)
	assertDecimal(t, ether(5000), extra.Debt)
	assertDecimal(t, ether(5000), extra.MintAmount)
}

type refusingSynthetic struct {
	*token.Synthetic
}

func (r refusingSynthetic) Mint(ctx context.Context, caller, to string, amount decimal.Decimal) (bool, error) {
	return false, nil
}

func TestDepositCollateralAndMintCompensates(t *testing.T) {
	s := setup(t, func(s *suite, ledgers token.Ledgers) (token.Ledgers, core.ISyntheticToken) {
		return ledgers, refusingSynthetic{s.synthetic}
	})
	s.fund(t, "alice", ether(100))

	err := s.engine.DepositCollateralAndMint(s.ctx, "alice", "weth", ether(10), ether(5000))
	assert.Equal(t, core.ErrMintFailed, err)

	// the collateral pulled before the mint was sent back
	assertDecimal(t, ether(100), s.balance(t, s.weth, "alice"))
	assert.True(t, s.balance(t, s.weth, engineID).IsZero())
	assert.True(t, s.collateral(t, "alice", "weth").IsZero())
	assert.True(t, s.debt(t, "alice").IsZero())

	transactions, err := s.engine.Transactions(s.ctx, "alice", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestRedeemCollateralForSynthetic(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	require.NoError(t, s.engine.DepositCollateralAndMint(s.ctx, "alice", "weth", ether(10), ether(5000)))

	// burning too little for the redeemed amount leaves everything untouched
	err := s.engine.RedeemCollateralForSynthetic(s.ctx, "alice", "weth", ether(10), ether(1000))
	assert.True(t, errors.Is(err, core.ErrBreaksHealthFactor))
	assertDecimal(t, ether(10), s.collateral(t, "alice", "weth"))
	assertDecimal(t, ether(5000), s.debt(t, "alice"))
	assertDecimal(t, ether(5000), s.balance(t, s.synthetic, "alice"))

	require.NoError(t, s.engine.RedeemCollateralForSynthetic(s.ctx, "alice", "weth", ether(10), ether(5000)))
	assert.True(t, s.collateral(t, "alice", "weth").IsZero())
	assert.True(t, s.debt(t, "alice").IsZero())
	assertDecimal(t, ether(100), s.balance(t, s.weth, "alice"))

	supply, err := s.synthetic.TotalSupply(s.ctx)
	require.NoError(t, err)
	assert.True(t, supply.IsZero())
}

func TestDuplicateTrace(t *testing.T) {
	s := setup(t)
	s.fund(t, "alice", ether(100))

	ctx := core.WithTraceID(s.ctx, "7e2b7a40-5bb4-4d4b-9d51-5d0b2d9b5d1e")
	require.NoError(t, s.engine.DepositCollateral(ctx, "alice", "weth", ether(10)))

	err := s.engine.DepositCollateral(ctx, "alice", "weth", ether(10))
	assert.Equal(t, core.ErrDuplicateTrace, err)
	assert.Equal(t, core.StorageError, core.CodeOf(err).Category())

	assertDecimal(t, ether(10), s.collateral(t, "alice", "weth"))
	assertDecimal(t, ether(10), s.balance(t, s.weth, engineID))
}

type reentrantLedger struct {
	core.IAssetLedger
	engine   core.IEngine
	readErr  error
	writeErr error
}

func (l *reentrantLedger) TransferFrom(ctx context.Context, spender, from, to string, amount decimal.Decimal) (bool, error) {
	_, l.readErr = l.engine.HealthFactor(ctx, from)
	l.writeErr = l.engine.MintSynthetic(ctx, from, decimal.NewFromInt(1))
	return l.IAssetLedger.TransferFrom(ctx, spender, from, to, amount)
}

func TestReentrantCall(t *testing.T) {
	var ledger *reentrantLedger
	s := setup(t, func(s *suite, ledgers token.Ledgers) (token.Ledgers, core.ISyntheticToken) {
		ledger = &reentrantLedger{IAssetLedger: s.weth}
		ledgers["weth"] = ledger
		return ledgers, s.synthetic
	})
	ledger.engine = s.engine
	s.fund(t, "alice", ether(100))

	require.NoError(t, s.engine.DepositCollateral(s.ctx, "alice", "weth", ether(10)))
	assert.NoError(t, ledger.readErr)
	assert.Equal(t, core.ErrReentrantCall, ledger.writeErr)
	assert.True(t, s.debt(t, "alice").IsZero())
}
