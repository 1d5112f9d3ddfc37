package config

import (
	"fmt"

	"synth/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Load load config file, SYNTH_ prefixed env vars override it
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("SYNTH")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaultConfig(config)
	return Validate(config)
}

func defaultConfig(cfg *core.Config) {
	if cfg.App.EngineID == "" {
		cfg.App.EngineID = "engine"
	}

	if cfg.App.SyntheticSymbol == "" {
		cfg.App.SyntheticSymbol = "DSC"
	}

	if cfg.App.Storage == "" {
		cfg.App.Storage = core.StorageMemory
	}

	if cfg.App.Location == "" {
		cfg.App.Location = "UTC"
	}

	if cfg.Oracle.Driver == "" {
		cfg.Oracle.Driver = core.OracleMock
	}

	if cfg.Monitor.Spec == "" {
		cfg.Monitor.Spec = "@every 1m"
	}
}

// Validate check required fields and driver settings
func Validate(cfg *core.Config) error {
	if _, err := govalidator.ValidateStruct(cfg.App); err != nil {
		return fmt.Errorf("%w: app: %s", core.ErrInvalidConfig, err)
	}

	if _, err := govalidator.ValidateStruct(cfg.Oracle); err != nil {
		return fmt.Errorf("%w: oracle: %s", core.ErrInvalidConfig, err)
	}

	if len(cfg.Collaterals) == 0 {
		return fmt.Errorf("%w: no collaterals", core.ErrInvalidConfig)
	}

	for _, c := range cfg.Collaterals {
		if _, err := govalidator.ValidateStruct(c); err != nil {
			return fmt.Errorf("%w: collateral %s: %s", core.ErrInvalidConfig, c.AssetID, err)
		}

		if (c.Decimals != nil && *c.Decimals < 0) || (c.FeedDecimals != nil && *c.FeedDecimals < 0) {
			return fmt.Errorf("%w: collateral %s: negative decimals", core.ErrInvalidConfig, c.AssetID)
		}
	}

	switch cfg.Oracle.Driver {
	case core.OracleHTTP:
		if !govalidator.IsURL(cfg.Oracle.EndPoint) {
			return fmt.Errorf("%w: oracle end_point %q", core.ErrInvalidConfig, cfg.Oracle.EndPoint)
		}
	case core.OracleChainlink:
		if cfg.Oracle.RPC == "" {
			return fmt.Errorf("%w: oracle rpc required", core.ErrInvalidConfig)
		}
	case core.OracleMock:
		for _, c := range cfg.Collaterals {
			if _, err := MockPrice(cfg, c.PriceFeed); err != nil {
				return err
			}
		}
	}

	for _, g := range cfg.Genesis {
		if _, err := govalidator.ValidateStruct(g); err != nil {
			return fmt.Errorf("%w: genesis: %s", core.ErrInvalidConfig, err)
		}

		if _, err := GrantAmount(g); err != nil {
			return err
		}
	}

	return nil
}

// MockPrice mock answer of feed, yaml numbers and strings are both accepted
func MockPrice(cfg *core.Config, feedID string) (decimal.Decimal, error) {
	v, ok := cfg.Oracle.Mock[feedID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no mock price for feed %s", core.ErrInvalidConfig, feedID)
	}

	return parseAmount(v, "mock price "+feedID)
}

// GrantAmount genesis amount in smallest units
func GrantAmount(g core.Grant) (decimal.Decimal, error) {
	return parseAmount(g.Amount, "genesis "+g.UserID+"/"+g.AssetID)
}

func parseAmount(v interface{}, name string) (decimal.Decimal, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %s", core.ErrInvalidConfig, name, err)
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s: %q", core.ErrInvalidConfig, name, s)
	}

	return d, nil
}
