package app

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/config"
	"github.com/stayhub/stayhub/pkg/user"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-User-Id header into context for downstream services.
	// The public feed and health endpoints never send the header; they
	// simply pass through without a user in context.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			userIdHeader := req.Header.Get("X-User-Id")
			ctx := req.Context()

			if userIdHeader != "" {
				userId, err := strconv.ParseInt(userIdHeader, 10, 64)
				if err != nil {
					log.Debugf("invalid user ID header: %s", userIdHeader)
					http.Error(w, "invalid user id", http.StatusBadRequest)
					return
				}
				ctx = user.WithUser(ctx, user.User{Id: userId})
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
