package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

// Config holds the event topic connection settings.
type Config struct {
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	Topic   string   `env:"KAFKA_EVENT_TOPIC" envDefault:"exchange.events"`
}

const publishTimeout = 5 * time.Second

// Publisher writes exchange events to the event topic. As an output
// pipeline consumer it follows the journaler's failure policy: a failed
// publish is logged and counted, never propagated into matching.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
	failures    func()
}

// NewPublisher creates a publisher on the event topic. onFailure may be
// nil; when set it is invoked once per failed publish.
func NewPublisher(cfg Config, log logger.Interface, onFailure func()) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})
	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
		failures:    onFailure,
	}
}

// Publish writes one event, keyed by pair so per-instrument ordering
// survives partitioning.
func (p *Publisher) Publish(ctx context.Context, event orderbookv1.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.NewErrorDetails(err.Error(), errors.KafkaPublishError, "event")
	}
	msg := kafka.Message{
		Key:   []byte(event.Pair),
		Value: value,
	}
	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "eventId", Value: event.ID},
			logger.Field{Key: "eventType", Value: event.Type},
		)
		return errors.NewTracer("failed to publish exchange event").Wrap(err)
	}
	return nil
}

// OnNext implements the output pipeline consumer.
func (p *Publisher) OnNext(_ uint64, event orderbookv1.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, event); err != nil && p.failures != nil {
		p.failures()
	}
}

// Close shuts the underlying Kafka writer down.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
