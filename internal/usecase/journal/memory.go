package journal

import (
	"context"
	"sync"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
)

// MemoryStore is an in-memory event log. It backs tests and single-node
// development runs; the postgres store is the durable production log.
type MemoryStore struct {
	mu      sync.RWMutex
	events  []orderbookv1.Event
	byID    map[string]int
	inputs  []sequencedInput
	inputMu sync.RWMutex
}

type sequencedInput struct {
	seq     uint64
	payload orderbookv1.InputPayload
}

// NewMemoryStore creates an empty in-memory log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

// StoreEvent appends one event.
func (s *MemoryStore) StoreEvent(_ context.Context, event orderbookv1.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[event.ID] = len(s.events)
	s.events = append(s.events, event)
	return nil
}

// GetEvent returns the event with the given id.
func (s *MemoryStore) GetEvent(_ context.Context, id string) (orderbookv1.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return orderbookv1.Event{}, errors.NewErrorDetails(
			"event "+id+" not found", errors.ErrJournalEventNotFound, "eventId",
		)
	}
	return s.events[idx], nil
}

// GetTradeEventsFromOrderID returns every trade event the order
// participated in, in publish order.
func (s *MemoryStore) GetTradeEventsFromOrderID(_ context.Context, orderID orderbookv1.OrderID) ([]orderbookv1.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []orderbookv1.Event
	for _, ev := range s.events {
		if ev.Type != orderbookv1.EventTradeExecuted || ev.Trade == nil {
			continue
		}
		if ev.Trade.Buy.ID == orderID || ev.Trade.Sell.ID == orderID {
			out = append(out, ev)
		}
	}
	return out, nil
}

// ReplayPair streams one pair's events in publish order.
func (s *MemoryStore) ReplayPair(_ context.Context, pair orderbookv1.CurrencyPair, fn func(orderbookv1.Event) error) error {
	s.mu.RLock()
	events := make([]orderbookv1.Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.Pair == pair {
			events = append(events, ev)
		}
	}
	s.mu.RUnlock()

	for _, ev := range events {
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}

// Replay streams the whole log in publish order.
func (s *MemoryStore) Replay(_ context.Context, fn func(orderbookv1.Event) error) error {
	s.mu.RLock()
	events := make([]orderbookv1.Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	for _, ev := range events {
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}

// StoreInput appends one sequenced input payload. The payload is cloned:
// the matching consumer receives the same pointer-bearing value and will
// mutate its order as it fills.
func (s *MemoryStore) StoreInput(_ context.Context, sequence uint64, payload orderbookv1.InputPayload) error {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()
	s.inputs = append(s.inputs, sequencedInput{seq: sequence, payload: payload.Clone()})
	return nil
}

// ReplayInputs streams payloads with sequence > after, in sequence order.
func (s *MemoryStore) ReplayInputs(_ context.Context, after uint64, fn func(uint64, orderbookv1.InputPayload) error) error {
	s.inputMu.RLock()
	inputs := make([]sequencedInput, len(s.inputs))
	copy(inputs, s.inputs)
	s.inputMu.RUnlock()

	for _, in := range inputs {
		if in.seq <= after {
			continue
		}
		if err := fn(in.seq, in.payload.Clone()); err != nil {
			return err
		}
	}
	return nil
}
