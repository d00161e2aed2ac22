package dashboard

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dubz-banking/dubz/internal/adapters/http/api"
	"github.com/dubz-banking/dubz/internal/adapters/http/site"
	"github.com/dubz-banking/dubz/pkg/logger"
	"github.com/dubz-banking/dubz/pkg/metrics"
)

// Page chrome.
const (
	Title    = "Dubz Banking"
	Subtitle = "Personal Finance Management"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html")) //nolint:gochecknoglobals // parsed once

type view struct {
	Title    string
	Subtitle string
	Pages    []Page
	Current  Page
	Health   Health
}

// Handler serves the dashboard.
type Handler struct {
	checker HealthChecker
	logger  logger.Logger
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a dashboard handler probing the API with checker.
func NewHandler(checker HealthChecker, opts ...Option) *Handler {
	h := &Handler{checker: checker, logger: logger.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the dashboard router.
func (h *Handler) Routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		api.RequestLogger(h.logger),
		api.MetricsMiddleware,
		middleware.Recoverer,
	)

	r.Get("/healthz", h.HandleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	// HTML and stylesheet are gzipped when the browser accepts it.
	r.Group(func(r chi.Router) {
		r.Use(handlers.CompressHandler)
		r.Get("/", h.HandlePage)
		site.Register(ctx, r)
	})
	return r
}

// HandlePage renders the page selected by ?page=. The API probe outcome is
// shown in the sidebar and never fails the render.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	page := PageByName(r.URL.Query().Get("page"))
	health := h.checker.Check(r.Context())
	if health.Status != StatusConnected {
		h.logger.Warn(r.Context(), "api health probe failed",
			logger.String("status", string(health.Status)),
			logger.Int("code", health.Code),
			logger.String("detail", health.Detail))
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, view{
		Title:    Title,
		Subtitle: Subtitle,
		Pages:    Pages(),
		Current:  page,
		Health:   health,
	})
	if err != nil {
		metrics.RecordErrorByComponent("dashboard", "render")
		h.logger.Error(r.Context(), "render dashboard", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	metrics.RecordDashboardPageView(page.Name)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HandleHealthz reports liveness of the dashboard process itself.
func (h *Handler) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}
