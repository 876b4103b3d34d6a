package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS applies the permissive cross-origin policy the browser client
// relies on. Preflight requests are answered with 200 and an empty body.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:       origins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Authorization", "Content-Type"},
		MaxAge:               3600,
		AllowCredentials:     false,
		OptionsSuccessStatus: http.StatusOK,
	})

	return handler.Handler
}
