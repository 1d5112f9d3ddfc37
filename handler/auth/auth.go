package auth

import (
	"net/http"
	"strings"

	"synth/handler/render"
	"synth/handler/request"

	"github.com/fox-one/pkg/logger"
	"github.com/twitchtv/twirp"
)

// HeaderUserID caller identity header
const HeaderUserID = "X-User-ID"

// HandleAuthentication put the caller identity from X-User-ID into the request context
func HandleAuthentication() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.FromContext(ctx).WithField("user", userID)
			ctx = logger.WithContext(ctx, log)
			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, userID)))
		}

		return http.HandlerFunc(fn)
	}
}

// LoginRequired reject requests without a caller identity
func LoginRequired(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if _, ok := request.UserFrom(r.Context()); !ok {
			render.Error(w, twirp.NewError(twirp.Unauthenticated, "missing "+HeaderUserID))
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
