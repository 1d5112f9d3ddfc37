package rest

import (
	"net/http"

	"synth/core"
	"synth/handler/param"
	"synth/handler/render"
	"synth/handler/views"
)

func accountHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := engine.AccountInformation(r.Context(), param.String(r, "user"))
		if err != nil {
			render.Error(w, err)
			return
		}

		min := engine.Parameters().MinHealthFactor
		render.JSON(w, views.Account{
			Account:      *account,
			Liquidatable: account.HealthFactor.LessThan(min),
		})
	}
}

func collateralHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, assetID := param.String(r, "user"), param.String(r, "asset")
		amount, err := engine.UserCollateral(r.Context(), userID, assetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Collateral{
			UserID:  userID,
			AssetID: assetID,
			Amount:  amount,
		})
	}
}

func transactionsHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			From  int64 `json:"from"`
			Limit int   `json:"limit" valid:"range(0|500)"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		transactions, err := engine.Transactions(r.Context(), param.String(r, "user"), params.From, params.Limit)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, transactions)
	}
}

func debtorsHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		debtors, err := engine.Debtors(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"debtors": debtors})
	}
}

func parametersHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := engine.Parameters()
		render.JSON(w, render.H{
			"precision":             p.Precision,
			"liquidation_threshold": p.LiquidationThreshold,
			"liquidation_bonus":     p.LiquidationBonus,
			"min_health_factor":     p.MinHealthFactor,
			"stale_timeout":         p.StaleTimeout.String(),
		})
	}
}
