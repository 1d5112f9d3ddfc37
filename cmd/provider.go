package cmd

import (
	"context"
	"fmt"

	"synth/config"
	"synth/core"
	"synth/service/converter"
	"synth/service/engine"
	"synth/service/oracle"
	"synth/service/priceguard"
	"synth/service/registry"
	"synth/service/token"
	"synth/store/memory"
	"synth/store/position"
	"synth/worker/monitor"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

type app struct {
	database    *db.DB
	engine      core.IEngine
	guard       core.IPriceGuard
	checkpoints monitor.Checkpoints
	close       func()
}

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideRegistry() core.IAssetRegistry {
	r, err := registry.NewWithAssets(cfg.SupportedAssets())
	if err != nil {
		panic(err)
	}

	return r
}

func providePriceFeeds(ctx context.Context) (oracle.Feeds, func(), error) {
	feeds := oracle.Feeds{}
	cleanup := func() {}

	switch cfg.Oracle.Driver {
	case core.OracleMock:
		for _, c := range cfg.Collaterals {
			answer, err := config.MockPrice(&cfg, c.PriceFeed)
			if err != nil {
				return nil, cleanup, err
			}

			feeds[c.PriceFeed] = oracle.NewMockFeed(answer)
		}
	case core.OracleHTTP:
		for _, c := range cfg.Collaterals {
			feeds[c.PriceFeed] = oracle.NewHTTPFeed(cfg.Oracle.EndPoint, c.PriceFeed)
		}
	case core.OracleChainlink:
		client, err := ethclient.DialContext(ctx, cfg.Oracle.RPC)
		if err != nil {
			return nil, cleanup, fmt.Errorf("dial %s: %w", cfg.Oracle.RPC, err)
		}

		cleanup = client.Close
		for idx := range cfg.Collaterals {
			c := &cfg.Collaterals[idx]
			feed, err := oracle.NewChainlinkFeed(client, c.PriceFeed)
			if err != nil {
				return nil, cleanup, err
			}

			d, err := feed.VerifyDecimals(ctx, c.FeedDecimals)
			if err != nil {
				return nil, cleanup, err
			}

			c.FeedDecimals = &d
			feeds[c.PriceFeed] = feed
		}
	default:
		return nil, cleanup, fmt.Errorf("%w: oracle driver %q", core.ErrInvalidConfig, cfg.Oracle.Driver)
	}

	return feeds, cleanup, nil
}

// provideLedgers in-process asset ledgers funded by the genesis grants,
// every grant is approved for the engine account
func provideLedgers(ctx context.Context) (token.Ledgers, error) {
	ledgers := token.Ledgers{}
	for _, c := range cfg.Collaterals {
		symbol := c.Symbol
		if symbol == "" {
			symbol = c.AssetID
		}

		ledgers[c.AssetID] = token.NewLedger(symbol)
	}

	for _, g := range cfg.Genesis {
		l, ok := ledgers[g.AssetID]
		if !ok {
			return nil, fmt.Errorf("%w: genesis asset %s is not a collateral", core.ErrInvalidConfig, g.AssetID)
		}

		amount, err := config.GrantAmount(g)
		if err != nil {
			return nil, err
		}

		ledger := l.(*token.Ledger)
		ledger.Credit(g.UserID, amount)
		if err := ledger.Approve(ctx, g.UserID, cfg.App.EngineID, ledger.Allowance(ctx, g.UserID, cfg.App.EngineID).Add(amount)); err != nil {
			return nil, err
		}
	}

	return ledgers, nil
}

// provideApp wire storage, oracle, ledgers and the engine from config
func provideApp(ctx context.Context) *app {
	log := logger.FromContext(ctx)

	a := &app{close: func() {}}

	var store core.IPositionStore
	switch cfg.App.Storage {
	case core.StorageDB:
		a.database = provideDatabase()
		store = position.New(a.database)
		a.checkpoints = propertystore.New(a.database)
	default:
		store = memory.New()
		a.checkpoints = memory.NewPropertyStore()
	}

	feeds, cleanup, err := providePriceFeeds(ctx)
	if err != nil {
		log.WithError(err).Panicln("providePriceFeeds")
	}

	ledgers, err := provideLedgers(ctx)
	if err != nil {
		log.WithError(err).Panicln("provideLedgers")
	}

	reg := provideRegistry()
	a.guard = priceguard.New(feeds)
	synthetic := token.NewSynthetic(cfg.App.SyntheticSymbol, cfg.App.EngineID)

	a.engine, err = engine.New(cfg.App.EngineID, reg, a.guard, converter.New(reg, a.guard), store, ledgers, synthetic)
	if err != nil {
		log.WithError(err).Panicln("engine.New")
	}

	a.close = func() {
		cleanup()
		if a.database != nil {
			a.database.Close()
		}
	}

	return a
}

func provideMonitor(a *app) *monitor.Monitor {
	m, err := monitor.New(cfg.App.Location, cfg.Monitor.Spec, a.engine, a.checkpoints)
	if err != nil {
		panic(err)
	}

	return m
}
