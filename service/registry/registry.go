package registry

import (
	"fmt"
	"strings"

	"synth/core"
	"synth/pkg/synth"
)

type registry struct {
	assets []*core.SupportedAsset
	index  map[string]*core.SupportedAsset
}

// New registry from ordered asset ids paired 1:1 with price feed ids
func New(assetIDs, priceFeeds []string) (core.IAssetRegistry, error) {
	if len(assetIDs) != len(priceFeeds) {
		return nil, core.ErrAssetsAndFeedsLengthMismatch
	}

	assets := make([]*core.SupportedAsset, len(assetIDs))
	for idx, assetID := range assetIDs {
		assets[idx] = &core.SupportedAsset{
			AssetID:      assetID,
			PriceFeed:    priceFeeds[idx],
			Decimals:     synth.DefaultAssetDecimals,
			FeedDecimals: synth.DefaultFeedDecimals,
		}
	}

	return NewWithAssets(assets)
}

// NewWithAssets registry from fully described assets, zero decimals are
// taken as given
func NewWithAssets(assets []*core.SupportedAsset) (core.IAssetRegistry, error) {
	r := &registry{
		assets: make([]*core.SupportedAsset, 0, len(assets)),
		index:  make(map[string]*core.SupportedAsset, len(assets)),
	}

	for _, a := range assets {
		if a == nil || strings.TrimSpace(a.AssetID) == "" {
			return nil, fmt.Errorf("%w: empty asset id", core.ErrInvalidConfig)
		}

		if _, ok := r.index[a.AssetID]; ok {
			return nil, fmt.Errorf("%w: duplicated asset %s", core.ErrInvalidConfig, a.AssetID)
		}

		if a.Decimals < 0 || a.FeedDecimals < 0 {
			return nil, fmt.Errorf("%w: negative decimals of %s", core.ErrInvalidConfig, a.AssetID)
		}

		asset := *a

		r.assets = append(r.assets, &asset)
		r.index[asset.AssetID] = &asset
	}

	return r, nil
}

// Find supported asset, only assets bound to a price feed are returned
func (r *registry) Find(assetID string) (*core.SupportedAsset, bool) {
	asset, ok := r.index[assetID]
	if !ok || !asset.Allowed() {
		return nil, false
	}

	cp := *asset
	return &cp, true
}

func (r *registry) All() []*core.SupportedAsset {
	assets := make([]*core.SupportedAsset, 0, len(r.assets))
	for _, a := range r.assets {
		if !a.Allowed() {
			continue
		}

		cp := *a
		assets = append(assets, &cp)
	}

	return assets
}

func (r *registry) PriceFeed(assetID string) (string, bool) {
	asset, ok := r.Find(assetID)
	if !ok {
		return "", false
	}

	return asset.PriceFeed, true
}
