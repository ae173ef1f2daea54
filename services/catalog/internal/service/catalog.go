package service

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/luxelife/boutique/pkg/errors"
	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/services/catalog/internal/catalog"
	"github.com/luxelife/boutique/services/catalog/internal/domain"
)

// SessionPublisher announces newly minted sessions.
type SessionPublisher interface {
	PublishSessionCreated(ctx context.Context, session *domain.Session) error
}

// Options tune CatalogService behaviour.
type Options struct {
	// StrictSKU rejects sessions for SKUs that are not in the catalog.
	StrictSKU bool
}

// CatalogService serves the product list and mints shopping sessions.
type CatalogService struct {
	catalog   *catalog.Catalog
	ids       SessionIDGenerator
	publisher SessionPublisher
	opts      Options
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	c *catalog.Catalog,
	ids SessionIDGenerator,
	publisher SessionPublisher,
	opts Options,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		catalog:   c,
		ids:       ids,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// CreateSessionInput holds the parameters for creating a session.
type CreateSessionInput struct {
	SKU string
}

// ListProducts returns every product in catalog order.
func (s *CatalogService) ListProducts(_ context.Context) []domain.Product {
	return s.catalog.All()
}

// GetProduct returns the product with the given SKU.
func (s *CatalogService) GetProduct(_ context.Context, sku string) (*domain.Product, error) {
	p, ok := s.catalog.BySKU(sku)
	if !ok {
		return nil, apperrors.NotFound("product", sku)
	}
	return &p, nil
}

// CreateSession mints an active session echoing input.SKU. The SKU is not
// checked against the catalog unless StrictSKU is set.
func (s *CatalogService) CreateSession(ctx context.Context, input *CreateSessionInput) (*domain.Session, error) {
	if strings.TrimSpace(input.SKU) == "" {
		return nil, apperrors.InvalidInput("sku is required")
	}
	if s.opts.StrictSKU {
		if _, ok := s.catalog.BySKU(input.SKU); !ok {
			return nil, apperrors.NotFound("product", input.SKU)
		}
	}

	session := domain.NewSession(s.ids.NewSessionID(), input.SKU)

	log := logger.WithContext(ctx, s.logger)
	log.Info("creating shopping session",
		slog.String("sku", session.SKU),
		slog.String("session_id", session.SessionID),
	)
	sessionsCreated.Inc()

	if err := s.publisher.PublishSessionCreated(ctx, session); err != nil {
		log.Warn("failed to publish session.created event",
			slog.String("session_id", session.SessionID),
			slog.String("error", err.Error()),
		)
	}

	return session, nil
}
