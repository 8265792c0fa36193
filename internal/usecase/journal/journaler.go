package journal

import (
	"context"
	"time"

	journalv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/journal/v1"
	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

// storeTimeout bounds a single journal write so a stuck database can never
// wedge a pipeline goroutine forever.
const storeTimeout = 5 * time.Second

// InputJournaler is an input pipeline consumer that records every payload
// with the sequence the matching engine saw. A failed write is logged and
// surfaced through the failure counter, never propagated: a durability gap
// must not stall matching.
type InputJournaler struct {
	store    journalv1.InputStore
	log      logger.Interface
	failures func()
}

// NewInputJournaler creates the consumer. onFailure may be nil; when set
// it is invoked once per failed write, typically to bump a metric.
func NewInputJournaler(store journalv1.InputStore, log logger.Interface, onFailure func()) *InputJournaler {
	return &InputJournaler{store: store, log: log, failures: onFailure}
}

// OnNext implements the pipeline consumer.
func (j *InputJournaler) OnNext(sequence uint64, payload orderbookv1.InputPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := j.store.StoreInput(ctx, sequence, payload); err != nil {
		j.log.Error(err,
			logger.Field{Key: "op", Value: "journal_input"},
			logger.Field{Key: "sequence", Value: sequence},
		)
		if j.failures != nil {
			j.failures()
		}
	}
}

// EventJournaler is an output pipeline consumer that appends every emitted
// event to the durable log. Same failure policy as InputJournaler.
type EventJournaler struct {
	store    journalv1.Store
	log      logger.Interface
	failures func()
}

// NewEventJournaler creates the consumer.
func NewEventJournaler(store journalv1.Store, log logger.Interface, onFailure func()) *EventJournaler {
	return &EventJournaler{store: store, log: log, failures: onFailure}
}

// OnNext implements the pipeline consumer.
func (j *EventJournaler) OnNext(_ uint64, event orderbookv1.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := j.store.StoreEvent(ctx, event); err != nil {
		j.log.Error(err,
			logger.Field{Key: "op", Value: "journal_event"},
			logger.Field{Key: "eventId", Value: event.ID},
			logger.Field{Key: "eventType", Value: event.Type},
		)
		if j.failures != nil {
			j.failures()
		}
	}
}
