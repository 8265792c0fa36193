package journalv1

import (
	"context"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
)

//go:generate mockgen -source=journal.go -destination=mock/journal_mock.go -package=mock

// Store is the durable append-only event log. Appends are keyed so events
// can be read back by event id, by order id, or replayed in publish order.
type Store interface {
	// StoreEvent appends one event to the log.
	StoreEvent(ctx context.Context, event orderbookv1.Event) error
	// GetEvent returns the event with the given id.
	GetEvent(ctx context.Context, id string) (orderbookv1.Event, error)
	// GetTradeEventsFromOrderID returns every trade event the given order
	// participated in, in publish order.
	GetTradeEventsFromOrderID(ctx context.Context, orderID orderbookv1.OrderID) ([]orderbookv1.Event, error)
	// ReplayPair streams the pair's events in publish order.
	ReplayPair(ctx context.Context, pair orderbookv1.CurrencyPair, fn func(orderbookv1.Event) error) error
	// Replay streams the whole log in publish order.
	Replay(ctx context.Context, fn func(orderbookv1.Event) error) error
}

// InputStore is the durable log of the input pipeline. It records every
// payload with the sequence the matching consumer saw, which makes the
// matching run reproducible.
type InputStore interface {
	// StoreInput appends one sequenced payload to the log.
	StoreInput(ctx context.Context, sequence uint64, payload orderbookv1.InputPayload) error
	// ReplayInputs streams payloads with sequence > after, in sequence
	// order.
	ReplayInputs(ctx context.Context, after uint64, fn func(uint64, orderbookv1.InputPayload) error) error
}
