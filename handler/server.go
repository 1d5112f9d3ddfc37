package handler

import (
	"net/http"

	"synth/core"
	"synth/handler/auth"
	"synth/handler/hc"
	"synth/handler/render"
	"synth/handler/rest"
	"synth/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Server server
type Server struct {
	engine  core.IEngine
	guard   core.IPriceGuard
	version string
}

// New new server function
func New(
	engine core.IEngine,
	guard core.IPriceGuard,
	version string,
) Server {
	return Server{
		engine:  engine,
		guard:   guard,
		version: version,
	}
}

// Handler full mux: /hc, /metrics and /api
func (s Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(logger.WithRequestID)
	mux.Use(forwardRequestID)
	mux.Use(middleware.Logger)
	mux.Use(middleware.NewCompressor(5).Handler)

	mux.Mount("/hc", hc.Handle(s.version, s.engine))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Mount("/api", s.HandleRestAPI())

	return mux
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.WrapResponse(true))
	r.Use(auth.HandleAuthentication())
	r.Mount("/", rest.Handle(s.engine, s.guard))
	return r
}

// forwardRequestID pass the request id on to oracle calls made while serving
func forwardRequestID(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-Id"); id != "" {
			r = r.WithContext(resthttp.WithRequestID(r.Context(), id))
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
