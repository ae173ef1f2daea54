package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/luxelife/boutique/pkg/config"
	"github.com/luxelife/boutique/pkg/tracing"
)

// Config holds all configuration for the shopping assistant.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort int `env:"ASSISTANT_HTTP_PORT" envDefault:"8000"`

	// Catalog service
	CatalogURL     string        `env:"CATALOG_SERVICE_URL" envDefault:"http://localhost:8182"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"5s"`

	// Circuit breaker around the catalog client
	BreakerMaxRequests  uint32        `env:"CB_MAX_REQUESTS" envDefault:"1"`
	BreakerInterval     time.Duration `env:"CB_INTERVAL" envDefault:"60s"`
	BreakerTimeout      time.Duration `env:"CB_TIMEOUT" envDefault:"30s"`
	BreakerFailureRatio float64       `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32        `env:"CB_MIN_REQUESTS" envDefault:"5"`

	ConversationTTL time.Duration `env:"CONVERSATION_TTL" envDefault:"30m"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	Tracing tracing.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load assistant config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !pkgconfig.ValidPort(c.HTTPPort) {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	u, err := url.Parse(c.CatalogURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("CATALOG_SERVICE_URL must be an absolute http(s) URL, got %q", c.CatalogURL)
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive, got %s", c.CatalogTimeout)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.BreakerFailureRatio)
	}
	if c.BreakerMaxRequests == 0 {
		return fmt.Errorf("CB_MAX_REQUESTS must be at least 1")
	}
	if c.ConversationTTL <= 0 {
		return fmt.Errorf("CONVERSATION_TTL must be positive, got %s", c.ConversationTTL)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.Tracing.SampleRate)
	}
	return nil
}
