package core

// SupportedAsset collateral asset bound to a price feed
type SupportedAsset struct {
	AssetID      string `json:"asset_id"`
	Symbol       string `json:"symbol,omitempty"`
	PriceFeed    string `json:"price_feed"`
	Decimals     int32  `json:"decimals"`
	FeedDecimals int32  `json:"feed_decimals"`
}

// Allowed an asset with a price feed binding can be used as collateral
func (a *SupportedAsset) Allowed() bool {
	return a != nil && a.PriceFeed != ""
}

// IAssetRegistry read-only mapping of supported collateral assets
type IAssetRegistry interface {
	Find(assetID string) (*SupportedAsset, bool)
	All() []*SupportedAsset
	PriceFeed(assetID string) (string, bool)
}
