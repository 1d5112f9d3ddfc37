package hc

import (
	"net/http"
	"time"

	"synth/core"
	"synth/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle handle hc request
func Handle(ver string, engine core.IEngine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, engine))
	return r
}

func handle(version string, engine core.IEngine) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b).Truncate(time.Millisecond)
		token := engine.SyntheticToken()

		supply, err := token.TotalSupply(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"uptime":      uptime.String(),
			"version":     version,
			"collaterals": len(engine.CollateralAssets()),
			"supply":      supply,
		})
	}
}
