package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luxelife/boutique/pkg/health"
	"github.com/luxelife/boutique/pkg/middleware"
)

const serviceName = "assistant"

// NewRouter creates a chi router with all assistant routes registered.
func NewRouter(
	t Toolset,
	c Concierge,
	healthHandler *health.Handler,
	cors middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.CORS(cors))
	// Leaves room for one catalog call plus its own timeout.
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	h := NewAssistantHandler(t, c, logger)

	r.Get("/", h.Root)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tools", h.ListTools)
		r.Post("/tools/search_catalog", h.SearchCatalog)
		r.Post("/tools/start_checkout", h.StartCheckout)
		r.Post("/chat", h.Chat)
		r.Get("/instruction", h.Instruction)
	})

	return r
}
