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
	"github.com/luxelife/boutique/services/catalog/internal/service"
)

const serviceName = "catalog"

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	catalogService *service.CatalogService,
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
	r.Use(chimw.Timeout(10 * time.Second))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	h := NewCatalogHandler(catalogService, logger)

	r.Get("/", h.Root)
	r.Route("/products", func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Get("/", h.ListProducts)
		r.Get("/{sku}", h.GetProduct)
	})
	r.Post("/sessions", h.CreateSession)

	return r
}
