package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/luxelife/boutique/pkg/health"
	pkgkafka "github.com/luxelife/boutique/pkg/kafka"
	"github.com/luxelife/boutique/pkg/middleware"
	"github.com/luxelife/boutique/pkg/tracing"
	"github.com/luxelife/boutique/services/catalog/internal/catalog"
	"github.com/luxelife/boutique/services/catalog/internal/config"
	"github.com/luxelife/boutique/services/catalog/internal/event"
	handler "github.com/luxelife/boutique/services/catalog/internal/handler/http"
	"github.com/luxelife/boutique/services/catalog/internal/service"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	kafkaProducer  *pkgkafka.Producer
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	tcfg := cfg.Tracing
	tcfg.ServiceName = "catalog-service"
	tcfg.ServiceVersion = "1.0.0"
	tcfg.Environment = cfg.Environment
	tracerShutdown, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		cat, err = catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}
	logger.Info("catalog loaded",
		slog.Int("products", cat.Len()),
		slog.String("source", catalogSource(cfg.CatalogFile)),
	)

	var ids service.SessionIDGenerator = service.FixedSessionID(service.DefaultSessionID)
	if cfg.SessionIDMode == config.SessionIDUUID {
		ids = service.UUIDSessionID{}
	}

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("catalog", func(context.Context) error {
		if cat.Len() == 0 {
			return catalog.ErrEmpty
		}
		return nil
	})

	var publisher service.SessionPublisher = event.NoopPublisher{}
	var kafkaProducer *pkgkafka.Producer
	if cfg.KafkaEnabled {
		kafkaProducer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(kafkaProducer, logger)
		healthHandler.RegisterNonCritical("kafka", kafkaProducer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	catalogService := service.NewCatalogService(cat, ids, publisher, service.Options{StrictSKU: cfg.StrictSKU}, logger)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment

	router := handler.NewRouter(catalogService, healthHandler, cors, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		kafkaProducer:  kafkaProducer,
		tracerShutdown: tracerShutdown,
		httpServer:     httpServer,
	}, nil
}

func catalogSource(file string) string {
	if file == "" {
		return "embedded"
	}
	return file
}

// Run starts the HTTP server, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

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

	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
