package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	orderreaderv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/order-reader/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

// Config holds the order topic connection settings.
type Config struct {
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	Topic   string   `env:"KAFKA_ORDER_TOPIC" envDefault:"exchange.orders"`
	GroupID string   `env:"KAFKA_ORDER_GROUP" envDefault:"matching-engine"`
}

// Publish hands one payload to the input pipeline and returns its assigned
// sequence.
type Publish func(orderbookv1.InputPayload) (uint64, error)

// Reader consumes order requests from Kafka and feeds them into the input
// pipeline. It is one of potentially many producers; the pipeline provides
// the total order.
type Reader struct {
	kafkaReader *kafka.Reader
	gen         *orderbookv1.OrderIDGenerator
	logger      logger.Interface
}

// NewReader creates a reader on the order topic.
func NewReader(cfg Config, gen *orderbookv1.OrderIDGenerator, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return &Reader{
		kafkaReader: kafkaReader,
		gen:         gen,
		logger:      log,
	}
}

// Run reads until the context is cancelled, converting each message and
// publishing it. Malformed messages are logged and skipped; the stream
// must keep moving.
func (r *Reader) Run(ctx context.Context, publish Publish) error {
	for {
		msg, err := r.kafkaReader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logError(err, "ReadMessage")
			return errors.TracerFromError(err)
		}

		var request orderreaderv1.Request
		if err := json.Unmarshal(msg.Value, &request); err != nil {
			r.logError(err, "UnmarshalRequest")
			continue
		}

		payload, err := request.ToPayload(r.gen)
		if err != nil {
			r.logError(err, "ToPayload")
			continue
		}

		seq, err := publish(payload)
		if err != nil {
			// The pipeline only refuses when it is shut down.
			r.logError(err, "Publish")
			return err
		}

		r.logger.Debug("order request sequenced",
			logger.Field{Key: "kind", Value: payload.Kind},
			logger.Field{Key: "pair", Value: payload.CurrencyPair()},
			logger.Field{Key: "sequence", Value: seq},
			logger.Field{Key: "offset", Value: msg.Offset},
		)
	}
}

// Close shuts the underlying Kafka reader down.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}
