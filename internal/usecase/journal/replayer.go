package journal

import (
	"context"

	journalv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/journal/v1"
	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

// Dispatcher is the surface of the exchange a replay drives. Matching is
// deterministic, so feeding the journaled inputs in sequence order
// rebuilds the exact book state.
type Dispatcher interface {
	OnNext(sequence uint64, payload orderbookv1.InputPayload)
}

// Replayer rebuilds exchange state from the durable input log.
type Replayer struct {
	store journalv1.InputStore
	log   logger.Interface
}

// NewReplayer creates a replayer over the given input log.
func NewReplayer(store journalv1.InputStore, log logger.Interface) *Replayer {
	return &Replayer{store: store, log: log}
}

// Replay feeds every journaled payload with sequence > after into the
// dispatcher, in sequence order, and returns the number applied. after is
// typically the input sequence watermark of the latest book snapshot.
func (r *Replayer) Replay(ctx context.Context, after uint64, dispatcher Dispatcher) (int, error) {
	applied := 0
	err := r.store.ReplayInputs(ctx, after, func(seq uint64, payload orderbookv1.InputPayload) error {
		dispatcher.OnNext(seq, payload)
		applied++
		return nil
	})
	if err != nil {
		return applied, err
	}
	r.log.Info("input replay complete",
		logger.Field{Key: "after", Value: after},
		logger.Field{Key: "applied", Value: applied},
	)
	return applied, nil
}
