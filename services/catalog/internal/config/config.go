package config

import (
	"fmt"

	pkgconfig "github.com/luxelife/boutique/pkg/config"
	"github.com/luxelife/boutique/pkg/tracing"
)

// Session ID modes.
const (
	SessionIDFixed = "fixed"
	SessionIDUUID  = "uuid"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort int `env:"CATALOG_HTTP_PORT" envDefault:"8182"`

	// Catalog data. Empty CatalogFile serves the embedded reference catalog.
	CatalogFile   string `env:"CATALOG_FILE"`
	StrictSKU     bool   `env:"CATALOG_STRICT_SKU" envDefault:"false"`
	SessionIDMode string `env:"SESSION_ID_MODE" envDefault:"fixed"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	Tracing tracing.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
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
	if c.SessionIDMode != SessionIDFixed && c.SessionIDMode != SessionIDUUID {
		return fmt.Errorf("SESSION_ID_MODE must be %q or %q, got %q", SessionIDFixed, SessionIDUUID, c.SessionIDMode)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.Tracing.SampleRate)
	}
	return nil
}
