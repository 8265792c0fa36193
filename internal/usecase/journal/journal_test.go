package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	journalmock "github.com/52tanbivv/coin-exchange-backend/internal/domain/journal/v1/mock"
	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/exchange"
	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

func tradeEvent(id string, pair orderbookv1.CurrencyPair, buyID, sellID int64) orderbookv1.Event {
	trade := orderbookv1.NewTrade(
		id+"-trade", pair,
		orderbookv1.PriceFromInt(491), orderbookv1.VolumeFromInt(100),
		orderbookv1.Order{ID: orderbookv1.OrderID(buyID), Pair: pair, Side: orderbookv1.SideBuy},
		orderbookv1.Order{ID: orderbookv1.OrderID(sellID), Pair: pair, Side: orderbookv1.SideSell},
		time.Now(),
	)
	return orderbookv1.Event{
		ID:        id,
		Type:      orderbookv1.EventTradeExecuted,
		Pair:      pair,
		Trade:     &trade,
		Timestamp: time.Now(),
	}
}

func TestMemoryStoreEventLookup(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.StoreEvent(ctx, tradeEvent("ev-1", "BTC-USD", 1, 2)))

	got, err := s.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "ev-1", got.ID)

	_, err = s.GetEvent(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, errors.ErrJournalEventNotFound))
}

func TestMemoryStoreTradeEventsByOrderID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.StoreEvent(ctx, tradeEvent("ev-1", "BTC-USD", 1, 2)))
	require.NoError(t, s.StoreEvent(ctx, tradeEvent("ev-2", "BTC-USD", 3, 1)))
	require.NoError(t, s.StoreEvent(ctx, tradeEvent("ev-3", "BTC-USD", 4, 5)))
	require.NoError(t, s.StoreEvent(ctx, orderbookv1.Event{ID: "ev-4", Type: orderbookv1.EventOrderAccepted, Pair: "BTC-USD"}))

	events, err := s.GetTradeEventsFromOrderID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ev-1", events[0].ID)
	assert.Equal(t, "ev-2", events[1].ID)
}

func TestMemoryStoreReplayFiltersByPair(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.StoreEvent(ctx, tradeEvent("ev-1", "BTC-USD", 1, 2)))
	require.NoError(t, s.StoreEvent(ctx, tradeEvent("ev-2", "ETH-USD", 3, 4)))
	require.NoError(t, s.StoreEvent(ctx, tradeEvent("ev-3", "BTC-USD", 5, 6)))

	var ids []string
	require.NoError(t, s.ReplayPair(ctx, "BTC-USD", func(ev orderbookv1.Event) error {
		ids = append(ids, ev.ID)
		return nil
	}))
	assert.Equal(t, []string{"ev-1", "ev-3"}, ids)

	ids = nil
	require.NoError(t, s.Replay(ctx, func(ev orderbookv1.Event) error {
		ids = append(ids, ev.ID)
		return nil
	}))
	assert.Equal(t, []string{"ev-1", "ev-2", "ev-3"}, ids)
}

func TestMemoryStoreReplayInputsAfterWatermark(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for seq := uint64(1); seq <= 5; seq++ {
		payload := orderbookv1.NewCancelPayload("BTC-USD", orderbookv1.OrderID(seq), 1)
		require.NoError(t, s.StoreInput(ctx, seq, payload))
	}

	var seqs []uint64
	require.NoError(t, s.ReplayInputs(ctx, 2, func(seq uint64, _ orderbookv1.InputPayload) error {
		seqs = append(seqs, seq)
		return nil
	}))
	assert.Equal(t, []uint64{3, 4, 5}, seqs)
}

type failingInputStore struct {
	MemoryStore
}

func (f *failingInputStore) StoreInput(context.Context, uint64, orderbookv1.InputPayload) error {
	return errors.NewErrorDetails("disk is gone", errors.ErrJournalStore, "")
}

func TestInputJournalerSwallowsStoreFailures(t *testing.T) {
	failures := 0
	j := NewInputJournaler(&failingInputStore{}, logger.NewNop(), func() { failures++ })

	assert.NotPanics(t, func() {
		j.OnNext(1, orderbookv1.NewCancelPayload("BTC-USD", 1, 1))
		j.OnNext(2, orderbookv1.NewCancelPayload("BTC-USD", 2, 1))
	})
	assert.Equal(t, 2, failures)
}

type failingEventStore struct {
	MemoryStore
}

func (f *failingEventStore) StoreEvent(context.Context, orderbookv1.Event) error {
	return errors.NewErrorDetails("disk is gone", errors.ErrJournalStore, "")
}

func TestEventJournalerSwallowsStoreFailures(t *testing.T) {
	failures := 0
	j := NewEventJournaler(&failingEventStore{}, logger.NewNop(), func() { failures++ })

	assert.NotPanics(t, func() {
		j.OnNext(1, tradeEvent("ev-1", "BTC-USD", 1, 2))
	})
	assert.Equal(t, 1, failures)
}

func TestJournalersPassItemsThroughUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := journalmock.NewMockStore(ctrl)
	inputs := journalmock.NewMockInputStore(ctrl)

	event := tradeEvent("ev-1", "BTC-USD", 1, 2)
	payload := orderbookv1.NewCancelPayload("BTC-USD", 9, 3)

	store.EXPECT().StoreEvent(gomock.Any(), event).Return(nil)
	inputs.EXPECT().StoreInput(gomock.Any(), uint64(7), payload).Return(nil)

	NewEventJournaler(store, logger.NewNop(), nil).OnNext(1, event)
	NewInputJournaler(inputs, logger.NewNop(), nil).OnNext(7, payload)
}

func TestReplayerRebuildsExchangeState(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	cfg := exchange.Config{Pairs: []orderbookv1.CurrencyPair{"BTC-USD"}, DepthLevels: 5}

	newOrder := func(id int64, side orderbookv1.Side, price, volume int64) orderbookv1.InputPayload {
		return orderbookv1.NewOrderPayload(orderbookv1.NewOrder(
			orderbookv1.OrderID(id), 1, "BTC-USD", side,
			orderbookv1.OrderTypeLimit,
			orderbookv1.PriceFromInt(price),
			orderbookv1.VolumeFromInt(volume),
		))
	}

	inputs := []orderbookv1.InputPayload{
		newOrder(1, orderbookv1.SideSell, 1252, 200),
		newOrder(2, orderbookv1.SideSell, 1251, 300),
		newOrder(3, orderbookv1.SideBuy, 1251, 100),
		orderbookv1.NewCancelPayload("BTC-USD", 1, 1),
	}

	live := exchange.New(cfg, nil, logger.NewNop())
	journaler := NewInputJournaler(store, logger.NewNop(), nil)
	for i, p := range inputs {
		seq := uint64(i + 1)
		journaler.OnNext(seq, p)
		live.OnNext(seq, p)
	}

	rebuilt := exchange.New(cfg, nil, logger.NewNop())
	applied, err := NewReplayer(store, logger.NewNop()).Replay(ctx, 0, rebuilt)
	require.NoError(t, err)
	assert.Equal(t, 4, applied)

	want := live.Book("BTC-USD").Snapshot()
	got := rebuilt.Book("BTC-USD").Snapshot()
	require.Equal(t, len(want.Bids), len(got.Bids))
	require.Equal(t, len(want.Asks), len(got.Asks))
	for i := range want.Asks {
		assert.True(t, want.Asks[i].Equal(got.Asks[i]))
	}
	assert.Equal(t, uint64(4), rebuilt.LastInputSequence())
}
