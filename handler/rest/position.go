package rest

import (
	"net/http"

	"synth/core"
	"synth/handler/param"
	"synth/handler/render"
	"synth/handler/views"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type collateralParams struct {
	AssetID string          `json:"asset_id" valid:"required"`
	Amount  decimal.Decimal `json:"amount"`
	TraceID string          `json:"trace_id"`
}

type syntheticParams struct {
	Amount  decimal.Decimal `json:"amount"`
	TraceID string          `json:"trace_id"`
}

func depositHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params collateralParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := caller(r)
		ctx, traceID := withTrace(r.Context(), userID, params.TraceID)
		if err := engine.DepositCollateral(ctx, userID, params.AssetID, params.Amount); err != nil {
			logger.FromContext(ctx).WithError(err).Infoln("rest: deposit rejected")
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Operation{Action: core.ActionTypeDeposit, TraceID: traceID, UserID: userID})
	}
}

func redeemHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params collateralParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := caller(r)
		ctx, traceID := withTrace(r.Context(), userID, params.TraceID)
		if err := engine.RedeemCollateral(ctx, userID, params.AssetID, params.Amount); err != nil {
			logger.FromContext(ctx).WithError(err).Infoln("rest: redeem rejected")
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Operation{Action: core.ActionTypeRedeem, TraceID: traceID, UserID: userID})
	}
}

func mintHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params syntheticParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := caller(r)
		ctx, traceID := withTrace(r.Context(), userID, params.TraceID)
		if err := engine.MintSynthetic(ctx, userID, params.Amount); err != nil {
			logger.FromContext(ctx).WithError(err).Infoln("rest: mint rejected")
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Operation{Action: core.ActionTypeMint, TraceID: traceID, UserID: userID})
	}
}

func burnHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params syntheticParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := caller(r)
		ctx, traceID := withTrace(r.Context(), userID, params.TraceID)
		if err := engine.BurnSynthetic(ctx, userID, params.Amount); err != nil {
			logger.FromContext(ctx).WithError(err).Infoln("rest: burn rejected")
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Operation{Action: core.ActionTypeBurn, TraceID: traceID, UserID: userID})
	}
}

func openHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			collateralParams
			MintAmount decimal.Decimal `json:"mint_amount"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := caller(r)
		ctx, traceID := withTrace(r.Context(), userID, params.TraceID)
		if err := engine.DepositCollateralAndMint(ctx, userID, params.AssetID, params.Amount, params.MintAmount); err != nil {
			logger.FromContext(ctx).WithError(err).Infoln("rest: open position rejected")
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Operation{Action: core.ActionTypeDepositAndMint, TraceID: traceID, UserID: userID})
	}
}

func closeHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			collateralParams
			BurnAmount decimal.Decimal `json:"burn_amount"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := caller(r)
		ctx, traceID := withTrace(r.Context(), userID, params.TraceID)
		if err := engine.RedeemCollateralForSynthetic(ctx, userID, params.AssetID, params.Amount, params.BurnAmount); err != nil {
			logger.FromContext(ctx).WithError(err).Infoln("rest: close position rejected")
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Operation{Action: core.ActionTypeRedeemForSynthetic, TraceID: traceID, UserID: userID})
	}
}

func liquidateHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID     string          `json:"asset_id" valid:"required"`
			UserID      string          `json:"user_id" valid:"required"`
			DebtToCover decimal.Decimal `json:"debt_to_cover"`
			TraceID     string          `json:"trace_id"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		liquidator := caller(r)
		ctx, traceID := withTrace(r.Context(), liquidator, params.TraceID)
		result, err := engine.Liquidate(ctx, liquidator, params.AssetID, params.UserID, params.DebtToCover)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Infoln("rest: liquidation rejected")
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Liquidation{
			Liquidation: *result,
			TraceID:     traceID,
		})
	}
}
