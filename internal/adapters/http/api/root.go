package api

import "net/http"

// WelcomeMessage is the body of GET /.
const WelcomeMessage = "Welcome to Dubz Banking API"

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

type rootResponse struct {
	Message string `json:"message"`
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{Message: WelcomeMessage})
}
