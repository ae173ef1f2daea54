package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/segmentio/kafka-go"

	pkgkafka "github.com/luxelife/boutique/pkg/kafka"
	"github.com/luxelife/boutique/pkg/logger"
)

type eventsCmd struct {
	Brokers       []string `default:"localhost:9092" env:"KAFKA_BROKERS" help:"Kafka brokers."`
	Topic         string   `default:"luxelife.session.created" help:"Topic to tail."`
	Group         string   `help:"Consumer group. Without one nothing is committed."`
	FromBeginning bool     `help:"Start at the oldest retained event."`
}

type sessionEvent struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	SKU       string `json:"sku"`
}

func (e *eventsCmd) Run(ctx context.Context, out io.Writer) error {
	cfg := pkgkafka.ConsumerConfig{
		Brokers: e.Brokers,
		GroupID: e.Group,
		Topic:   e.Topic,
	}
	if e.FromBeginning {
		cfg.StartOffset = kafka.FirstOffset
	}
	log := logger.NewWithWriter("luxectl", "warn", os.Stderr)
	return pkgkafka.NewConsumer(cfg, printEvent(out), log).Start(ctx)
}

// printEvent writes one line per event. Session payloads are summarized.
func printEvent(out io.Writer) pkgkafka.Handler {
	return func(ctx context.Context, event *pkgkafka.Event) error {
		ts := event.Timestamp.Format("2006-01-02T15:04:05Z07:00")
		var data sessionEvent
		if err := event.UnmarshalData(&data); err != nil || data.SessionID == "" {
			_, err := fmt.Fprintf(out, "%s %s %s %s\n", ts, event.EventType, event.AggregateID, string(event.Data))
			return err
		}
		_, err := fmt.Fprintf(out, "%s %s session=%s status=%s sku=%s\n",
			ts, event.EventType, data.SessionID, data.Status, data.SKU)
		return err
	}
}
