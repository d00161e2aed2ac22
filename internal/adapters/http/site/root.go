// Package site serves the embedded static assets of the dashboard.
package site

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Prefix is the URL prefix the assets are mounted under.
const Prefix = "/static/"

// Register attaches the embedded asset routes to r.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	files := http.StripPrefix(Prefix, http.FileServer(FS()))
	r.Method(http.MethodGet, Prefix+"*", files)
}
