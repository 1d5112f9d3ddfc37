package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"synth/core"
	"synth/handler/auth"
	"synth/handler/render"
	"synth/handler/request"
	"synth/pkg/id"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(engine core.IEngine, guard core.IPriceGuard) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.LoginRequired)

		r.Post("/collaterals/deposit", depositHandler(engine))
		r.Post("/collaterals/redeem", redeemHandler(engine))
		r.Post("/synthetic/mint", mintHandler(engine))
		r.Post("/synthetic/burn", burnHandler(engine))
		r.Post("/positions/open", openHandler(engine))
		r.Post("/positions/close", closeHandler(engine))
		r.Post("/liquidations", liquidateHandler(engine))
	})

	router.Get("/parameters", parametersHandler(engine))
	router.Get("/debtors", debtorsHandler(engine))
	router.Route("/accounts/{user}", func(r chi.Router) {
		r.Get("/", accountHandler(engine))
		r.Get("/collaterals/{asset}", collateralHandler(engine))
		r.Get("/transactions", transactionsHandler(engine))
	})

	router.Get("/assets", assetsHandler(engine, guard))
	router.Get("/assets/{asset}/usd-value", usdValueHandler(engine))
	router.Get("/assets/{asset}/amount", assetAmountHandler(engine))

	return router
}

// withTrace attach the trace id of the request to ctx, generating one if the caller sent none.
// Client keys which are not uuids are namespaced by the caller.
func withTrace(ctx context.Context, userID, traceID string) (context.Context, string) {
	traceID = strings.TrimSpace(traceID)
	switch {
	case traceID == "":
		traceID = id.GenTraceID()
	case !id.IsUUID(traceID):
		traceID = id.TraceIDFrom(userID + ":" + traceID)
	}

	return core.WithTraceID(ctx, traceID), traceID
}

func caller(r *http.Request) string {
	userID, _ := request.UserFrom(r.Context())
	return userID
}
