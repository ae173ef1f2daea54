package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

// maxHandlerAttempts bounds how often one message is handed to the handler
// before it is committed and skipped.
const maxHandlerAttempts = 3

// Handler processes one decoded event.
type Handler func(ctx context.Context, event *Event) error

// ConsumerConfig holds Kafka consumer configuration. An empty GroupID reads
// the partition directly from StartOffset without committing.
type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	Topic       string
	StartOffset int64
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer feeds events from one topic to a Handler.
type Consumer struct {
	reader    messageReader
	topic     string
	commit    bool
	handler   Handler
	logger    *slog.Logger
	backoff   time.Duration
	closeOnce sync.Once
}

// NewConsumer creates a consumer. No connection is made until Start.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	startOffset := cfg.StartOffset
	if startOffset == 0 {
		startOffset = kafka.LastOffset
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: startOffset,
		MaxWait:     500 * time.Millisecond,
	})
	return newConsumer(r, cfg.Topic, cfg.GroupID != "", handler, logger)
}

func newConsumer(r messageReader, topic string, commit bool, handler Handler, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:  r,
		topic:   topic,
		commit:  commit,
		handler: handler,
		logger:  logger,
		backoff: 100 * time.Millisecond,
	}
}

// Start consumes until ctx is canceled. Undecodable messages and messages
// whose handler fails every attempt are logged and skipped.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started", slog.String("topic", c.topic))
	defer func() { _ = c.Close() }()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", slog.String("topic", c.topic))
				return nil
			}
			c.logger.Error("failed to fetch message", slog.String("error", err.Error()))
			continue
		}

		msgCtx := otel.GetTextMapPropagator().Extract(ctx, NewHeaderCarrier(&msg))

		event, err := UnmarshalEvent(msg.Value)
		if err != nil {
			c.logger.ErrorContext(msgCtx, "failed to unmarshal event",
				slog.String("error", err.Error()),
				slog.Int64("offset", msg.Offset),
			)
			consumerMessagesFailed.WithLabelValues(c.topic).Inc()
			c.commitMessage(ctx, msg)
			continue
		}

		if err := c.handle(msgCtx, event); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.ErrorContext(msgCtx, "handler failed, skipping message",
				slog.String("event_type", event.EventType),
				slog.String("aggregate_id", event.AggregateID),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
			consumerMessagesFailed.WithLabelValues(c.topic).Inc()
		} else {
			consumerMessagesProcessed.WithLabelValues(c.topic).Inc()
		}
		c.commitMessage(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, event *Event) error {
	var err error
	for attempt := 1; attempt <= maxHandlerAttempts; attempt++ {
		if err = c.handler(ctx, event); err == nil {
			return nil
		}
		if attempt == maxHandlerAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return err
}

func (c *Consumer) commitMessage(ctx context.Context, msg kafka.Message) {
	if !c.commit {
		return
	}
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit message", slog.String("error", err.Error()))
	}
}

// Close closes the reader. It is safe to call more than once.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
