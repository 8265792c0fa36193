package journal

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
	"github.com/52tanbivv/coin-exchange-backend/pkg/postgresql"
)

//go:embed schema.sql
var schema string

// PostgresStore is the durable append-only event log. Events are stored as
// JSONB payloads with the columns needed for the read-side queries pulled
// out alongside.
type PostgresStore struct {
	client postgresql.Client
}

// NewPostgresStore creates a store on top of an established client.
func NewPostgresStore(client postgresql.Client) *PostgresStore {
	return &PostgresStore{client: client}
}

// Migrate applies the journal schema. Idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.client.Exec(ctx, schema); err != nil {
		return errors.NewErrorDetails("apply journal schema: "+err.Error(), errors.ErrJournalStore, "")
	}
	return nil
}

// StoreEvent appends one event to the log.
func (s *PostgresStore) StoreEvent(ctx context.Context, event orderbookv1.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.NewErrorDetails("marshal event "+event.ID+": "+err.Error(), errors.ErrJournalStore, "")
	}

	var buyID, sellID *int64
	if event.Type == orderbookv1.EventTradeExecuted && event.Trade != nil {
		b, sl := int64(event.Trade.Buy.ID), int64(event.Trade.Sell.ID)
		buyID, sellID = &b, &sl
	}

	_, err = s.client.Exec(ctx, `
		INSERT INTO exchange_events (event_id, sequence, event_type, pair, buy_order_id, sell_order_id, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING`,
		event.ID, int64(event.Sequence), string(event.Type), string(event.Pair), buyID, sellID, payload,
	)
	if err != nil {
		return errors.NewErrorDetails("append event "+event.ID+": "+err.Error(), errors.ErrJournalStore, "")
	}
	return nil
}

// GetEvent returns the event with the given id.
func (s *PostgresStore) GetEvent(ctx context.Context, id string) (orderbookv1.Event, error) {
	var payload []byte
	err := s.client.QueryRow(ctx,
		`SELECT payload FROM exchange_events WHERE event_id = $1`, id,
	).Scan(&payload)
	if err == pgx.ErrNoRows {
		return orderbookv1.Event{}, errors.NewErrorDetails("event "+id+" not found", errors.ErrJournalEventNotFound, "")
	}
	if err != nil {
		return orderbookv1.Event{}, errors.NewErrorDetails("query event "+id+": "+err.Error(), errors.ErrJournalQuery, "")
	}
	return decodeEvent(payload)
}

// GetTradeEventsFromOrderID returns every trade event the order
// participated in, in publish order.
func (s *PostgresStore) GetTradeEventsFromOrderID(ctx context.Context, orderID orderbookv1.OrderID) ([]orderbookv1.Event, error) {
	rows, err := s.client.Query(ctx, `
		SELECT payload FROM exchange_events
		WHERE buy_order_id = $1 OR sell_order_id = $1
		ORDER BY id`,
		int64(orderID),
	)
	if err != nil {
		return nil, errors.NewErrorDetails("query trade events: "+err.Error(), errors.ErrJournalQuery, "")
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ReplayPair streams one pair's events in publish order.
func (s *PostgresStore) ReplayPair(ctx context.Context, pair orderbookv1.CurrencyPair, fn func(orderbookv1.Event) error) error {
	rows, err := s.client.Query(ctx,
		`SELECT payload FROM exchange_events WHERE pair = $1 ORDER BY id`, string(pair),
	)
	if err != nil {
		return errors.NewErrorDetails("replay pair "+string(pair)+": "+err.Error(), errors.ErrJournalQuery, "")
	}
	defer rows.Close()
	return streamEvents(rows, fn)
}

// Replay streams the whole log in publish order.
func (s *PostgresStore) Replay(ctx context.Context, fn func(orderbookv1.Event) error) error {
	rows, err := s.client.Query(ctx, `SELECT payload FROM exchange_events ORDER BY id`)
	if err != nil {
		return errors.NewErrorDetails("replay events: "+err.Error(), errors.ErrJournalQuery, "")
	}
	defer rows.Close()
	return streamEvents(rows, fn)
}

// StoreInput appends one sequenced input payload. The sequence is the
// primary key: re-journaling the same sequence after a crash is a no-op.
func (s *PostgresStore) StoreInput(ctx context.Context, sequence uint64, payload orderbookv1.InputPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.NewErrorDetails("marshal input: "+err.Error(), errors.ErrJournalStore, "")
	}
	_, err = s.client.Exec(ctx, `
		INSERT INTO exchange_inputs (sequence, payload)
		VALUES ($1, $2)
		ON CONFLICT (sequence) DO NOTHING`,
		int64(sequence), raw,
	)
	if err != nil {
		return errors.NewErrorDetails("append input: "+err.Error(), errors.ErrJournalStore, "")
	}
	return nil
}

// ReplayInputs streams payloads with sequence > after, in sequence order.
func (s *PostgresStore) ReplayInputs(ctx context.Context, after uint64, fn func(uint64, orderbookv1.InputPayload) error) error {
	rows, err := s.client.Query(ctx,
		`SELECT sequence, payload FROM exchange_inputs WHERE sequence > $1 ORDER BY sequence`,
		int64(after),
	)
	if err != nil {
		return errors.NewErrorDetails("replay inputs: "+err.Error(), errors.ErrJournalQuery, "")
	}
	defer rows.Close()

	for rows.Next() {
		var seq int64
		var raw []byte
		if err := rows.Scan(&seq, &raw); err != nil {
			return errors.NewErrorDetails("scan input row: "+err.Error(), errors.ErrJournalQuery, "")
		}
		var payload orderbookv1.InputPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return errors.NewErrorDetails("decode input payload: "+err.Error(), errors.ErrJournalQuery, "")
		}
		if err := fn(uint64(seq), payload); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewErrorDetails("replay inputs: "+err.Error(), errors.ErrJournalQuery, "")
	}
	return nil
}

func decodeEvent(payload []byte) (orderbookv1.Event, error) {
	var ev orderbookv1.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return orderbookv1.Event{}, errors.NewErrorDetails("decode event payload: "+err.Error(), errors.ErrJournalQuery, "")
	}
	return ev, nil
}

func collectEvents(rows pgx.Rows) ([]orderbookv1.Event, error) {
	var out []orderbookv1.Event
	err := streamEvents(rows, func(ev orderbookv1.Event) error {
		out = append(out, ev)
		return nil
	})
	return out, err
}

func streamEvents(rows pgx.Rows, fn func(orderbookv1.Event) error) error {
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return errors.NewErrorDetails("scan event row: "+err.Error(), errors.ErrJournalQuery, "")
		}
		ev, err := decodeEvent(payload)
		if err != nil {
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewErrorDetails("stream events: "+err.Error(), errors.ErrJournalQuery, "")
	}
	return nil
}
