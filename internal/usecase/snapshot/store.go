package snapshot

import (
	"context"
	"encoding/json"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
	"github.com/52tanbivv/coin-exchange-backend/pkg/redis"
)

const keyPrefix = "exchange:book:"

// Store persists per-pair book states in Redis. Snapshots are an
// optimization: they bound how much of the input journal a restart has to
// replay, so a missing or stale snapshot is never an error.
type Store struct {
	client redis.Client
	log    logger.Interface
}

// NewStore creates a snapshot store on top of a connected client.
func NewStore(client redis.Client, log logger.Interface) *Store {
	return &Store{client: client, log: log}
}

// Save persists one book state. Snapshots never expire; each save
// overwrites the previous one for the pair.
func (s *Store) Save(ctx context.Context, state orderbookv1.BookState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return errors.NewErrorDetails(err.Error(), errors.RedisSetError, string(state.Pair))
	}
	if err := s.client.Set(ctx, keyPrefix+string(state.Pair), string(raw), 0); err != nil {
		return err
	}
	s.log.Debug("book snapshot saved",
		logger.Field{Key: "pair", Value: state.Pair},
		logger.Field{Key: "inputSequence", Value: state.InputSequence},
	)
	return nil
}

// Load returns the latest state for a pair. The second return value is
// false when no snapshot exists.
func (s *Store) Load(ctx context.Context, pair orderbookv1.CurrencyPair) (orderbookv1.BookState, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+string(pair))
	if err != nil {
		return orderbookv1.BookState{}, false, err
	}
	if raw == "" {
		return orderbookv1.BookState{}, false, nil
	}
	var state orderbookv1.BookState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return orderbookv1.BookState{}, false, errors.NewErrorDetails(err.Error(), errors.RedisGetError, string(pair))
	}
	return state, true, nil
}
