package core

import (
	"synth/pkg/synth"

	"github.com/fox-one/pkg/store/db"
)

const (
	// StorageDB positions in the sql database
	StorageDB = "db"
	// StorageMemory positions in process memory, lost on exit
	StorageMemory = "memory"

	// OracleMock prices served from Oracle.Mock
	OracleMock = "mock"
	// OracleHTTP round data pulled from Oracle.EndPoint
	OracleHTTP = "http"
	// OracleChainlink AggregatorV3 contracts read through Oracle.RPC
	OracleChainlink = "chainlink"
)

// Config engine config
type Config struct {
	App         App           `json:"app"`
	DB          db.Config     `json:"db"`
	Collaterals []AssetConfig `json:"collaterals"`
	Oracle      Oracle        `json:"oracle"`
	Monitor     Monitor       `json:"monitor"`
	// balances credited on the in-process asset ledgers at start
	Genesis []Grant `json:"genesis"`
}

// App app config
type App struct {
	// account id the engine holds collateral and synthetic under
	EngineID        string `json:"engine_id" valid:"required"`
	SyntheticSymbol string `json:"synthetic_symbol"`
	Storage         string `json:"storage" valid:"in(db|memory)"`
	Location        string `json:"location"`
}

// AssetConfig collateral asset config
type AssetConfig struct {
	AssetID      string `json:"asset_id" valid:"required"`
	Symbol       string `json:"symbol"`
	PriceFeed    string `json:"price_feed" valid:"required"`
	// nil falls back to 18 for the asset and 8 for the feed
	Decimals     *int32 `json:"decimals"`
	FeedDecimals *int32 `json:"feed_decimals"`
}

// Oracle price oracle config
type Oracle struct {
	Driver   string `json:"driver" valid:"in(mock|http|chainlink)"`
	EndPoint string `json:"end_point"`
	RPC      string `json:"rpc"`
	// feed id => answer in feed precision
	Mock map[string]interface{} `json:"mock"`
}

// Monitor monitor worker config
type Monitor struct {
	Spec string `json:"spec"`
}

// Grant genesis balance
type Grant struct {
	UserID  string      `json:"user_id" valid:"required"`
	AssetID string      `json:"asset_id" valid:"required"`
	Amount  interface{} `json:"amount"`
}

// SupportedAssets collateral list as supported assets
func (c *Config) SupportedAssets() []*SupportedAsset {
	assets := make([]*SupportedAsset, 0, len(c.Collaterals))
	for _, a := range c.Collaterals {
		assets = append(assets, &SupportedAsset{
			AssetID:      a.AssetID,
			Symbol:       a.Symbol,
			PriceFeed:    a.PriceFeed,
			Decimals:     decimalsOr(a.Decimals, synth.DefaultAssetDecimals),
			FeedDecimals: decimalsOr(a.FeedDecimals, synth.DefaultFeedDecimals),
		})
	}

	return assets
}

func decimalsOr(v *int32, def int32) int32 {
	if v == nil {
		return def
	}

	return *v
}
