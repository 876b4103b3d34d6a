package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chessbook-sync/internal/config"
	"chessbook-sync/internal/handler"
	"chessbook-sync/internal/middleware"
)

// Pinger reports backing-store reachability for the health endpoint.
type Pinger interface {
	Health(ctx context.Context) error
}

// New wires the HTTP surface: the auth gateway under /auth and the
// guarded sync channel at /sync. Path prefixes are fixed; the browser
// client hardcodes them.
func New(cfg *config.Config, store Pinger, authHandler *handler.AuthHandler, syncHandler *handler.SyncHandler) http.Handler {
	r := chi.NewRouter()
	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimit.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/signup", authHandler.Signup)
		auth.Post("/login", authHandler.Login)
	})

	r.Get("/sync", syncHandler.Connect)

	return r
}
