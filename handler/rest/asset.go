package rest

import (
	"errors"
	"net/http"

	"synth/core"
	"synth/handler/param"
	"synth/handler/render"
	"synth/handler/views"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

func assetsHandler(engine core.IEngine, guard core.IPriceGuard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		assets := engine.CollateralAssets()
		items := make([]views.Asset, 0, len(assets))
		for _, asset := range assets {
			item := views.Asset{SupportedAsset: *asset}

			point, err := guard.Latest(ctx, asset.PriceFeed)
			switch {
			case errors.Is(err, core.ErrStalePrice):
				item.Stale = true
			case err != nil:
				log.WithError(err).Errorln("guard.Latest", asset.PriceFeed)
				render.Error(w, err)
				return
			default:
				item.Price = point.Price
				item.UpdatedAt = &point.UpdatedAt
			}

			items = append(items, item)
		}

		render.JSON(w, items)
	}
}

func usdValueHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Amount decimal.Decimal `json:"amount"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		assetID := param.String(r, "asset")
		usd, err := engine.UsdValue(r.Context(), assetID, params.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Quote{AssetID: assetID, Amount: params.Amount, Usd: usd})
	}
}

func assetAmountHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Usd decimal.Decimal `json:"usd"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		assetID := param.String(r, "asset")
		amount, err := engine.TokenAmountFromUsd(r.Context(), assetID, params.Usd)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Quote{AssetID: assetID, Amount: amount, Usd: params.Usd})
	}
}
