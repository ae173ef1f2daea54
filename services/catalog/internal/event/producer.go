package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/luxelife/boutique/pkg/kafka"
	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/services/catalog/internal/domain"
)

// TopicSessionCreated carries one message per minted session.
var TopicSessionCreated = pkgkafka.Topic("session", "created")

const (
	EventTypeSessionCreated = "session.created"
	AggregateTypeSession    = "session"
	SourceCatalogService    = "catalog-service"
)

// SessionCreatedData is the payload of a session.created event.
type SessionCreatedData struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	SKU       string `json:"sku"`
}

// Producer publishes session events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishSessionCreated publishes a session.created event.
func (p *Producer) PublishSessionCreated(ctx context.Context, session *domain.Session) error {
	event, err := pkgkafka.NewEvent(EventTypeSessionCreated, session.SessionID, AggregateTypeSession, SourceCatalogService,
		SessionCreatedData{SessionID: session.SessionID, Status: session.Status, SKU: session.SKU})
	if err != nil {
		return fmt.Errorf("create session.created event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, TopicSessionCreated, event); err != nil {
		return fmt.Errorf("publish session.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published session.created event",
		slog.String("session_id", session.SessionID),
		slog.String("sku", session.SKU),
	)
	return nil
}

// NoopPublisher drops events. It is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishSessionCreated(context.Context, *domain.Session) error { return nil }
