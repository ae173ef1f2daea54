package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/luxelife/boutique/pkg/health"
	"github.com/luxelife/boutique/pkg/httpclient"
	"github.com/luxelife/boutique/pkg/middleware"
	"github.com/luxelife/boutique/pkg/tracing"
	"github.com/luxelife/boutique/services/assistant/internal/catalogclient"
	"github.com/luxelife/boutique/services/assistant/internal/concierge"
	"github.com/luxelife/boutique/services/assistant/internal/config"
	handler "github.com/luxelife/boutique/services/assistant/internal/handler/http"
	"github.com/luxelife/boutique/services/assistant/internal/tools"
)

// App wires together all dependencies and runs the shopping assistant.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	concierge      *concierge.Concierge
	stopJanitor    context.CancelFunc
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// NewCatalogClient builds the breaker-guarded catalog client from cfg.
func NewCatalogClient(cfg *config.Config, logger *slog.Logger) *catalogclient.Client {
	hcfg := httpclient.DefaultConfig()
	hcfg.Timeout = cfg.CatalogTimeout
	hcfg.MaxRetries = 0
	base := httpclient.New(hcfg)

	breaker := httpclient.NewCircuitBreakerClient(base, httpclient.CircuitBreakerConfig{
		Name:         "catalog",
		MaxRequests:  cfg.BreakerMaxRequests,
		Interval:     cfg.BreakerInterval,
		Timeout:      cfg.BreakerTimeout,
		FailureRatio: cfg.BreakerFailureRatio,
		MinRequests:  cfg.BreakerMinRequests,
	}, logger)

	return catalogclient.New(breaker, cfg.CatalogURL, cfg.CatalogTimeout, logger)
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	tcfg := cfg.Tracing
	tcfg.ServiceName = "assistant-service"
	tcfg.ServiceVersion = "1.0.0"
	tcfg.Environment = cfg.Environment
	tracerShutdown, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	client := NewCatalogClient(cfg, logger)
	logger.Info("catalog client initialized",
		slog.String("catalog_url", client.BaseURL()),
		slog.Duration("timeout", cfg.CatalogTimeout),
	)

	toolset := tools.NewToolset(client, logger)
	conc := concierge.New(toolset, cfg.ConversationTTL, logger)

	// The assistant still answers with error markers while the catalog is
	// down, so the catalog only degrades readiness.
	healthHandler := health.NewHandler()
	healthHandler.RegisterNonCritical("catalog", client.Ping)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment

	router := handler.NewRouter(toolset, conc, healthHandler, cors, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		concierge:      conc,
		tracerShutdown: tracerShutdown,
		httpServer:     httpServer,
	}, nil
}

// Run starts the HTTP server and the conversation janitor, blocking until
// the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	janitorCtx, stop := context.WithCancel(context.Background())
	a.stopJanitor = stop
	go a.concierge.Run(janitorCtx)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		stop()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.stopJanitor != nil {
		a.stopJanitor()
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
