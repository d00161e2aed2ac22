package api

import (
	"net/http"

	"github.com/go-chi/cors"
)

// DefaultAllowedOrigin is the dashboard's local address.
const DefaultAllowedOrigin = "http://localhost:8501"

var corsMethods = []string{ //nolint:gochecknoglobals // fixed policy
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
	http.MethodConnect, http.MethodTrace,
}

// CORS grants credentialed cross-origin access to origins only, for every
// method and any request header. Requests from any other origin are served
// without CORS headers.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   corsMethods,
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
}
