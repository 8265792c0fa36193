package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/journal"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/snapshot"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
	redismock "github.com/52tanbivv/coin-exchange-backend/pkg/redis/mock"
)

func testConfig() Config {
	return Config{
		Pairs:        []orderbookv1.CurrencyPair{"BTC-USD"},
		DepthLevels:  5,
		InputBuffer:  64,
		OutputBuffer: 256,
	}
}

func newTestEngine(t *testing.T, store *journal.MemoryStore) *Engine {
	t.Helper()
	return New(testConfig(), Deps{
		Logger:     logger.NewNop(),
		InputStore: store,
		EventStore: store,
	})
}

func publishLimit(t *testing.T, e *Engine, id int64, side orderbookv1.Side, price, volume int64) {
	t.Helper()
	_, err := e.Publish(orderbookv1.NewOrderPayload(orderbookv1.NewOrder(
		orderbookv1.OrderID(id), 1, "BTC-USD", side,
		orderbookv1.OrderTypeLimit,
		orderbookv1.PriceFromInt(price),
		orderbookv1.VolumeFromInt(volume),
	)))
	require.NoError(t, err)
}

func TestEngineEndToEndMatch(t *testing.T) {
	store := journal.NewMemoryStore()
	e := newTestEngine(t, store)
	require.NoError(t, e.Start(context.Background()))

	publishLimit(t, e, 1, orderbookv1.SideBuy, 491, 100)
	publishLimit(t, e, 2, orderbookv1.SideSell, 491, 100)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Stop(stopCtx))

	// Both sides matched away.
	book := e.Exchange().Book("BTC-USD")
	assert.Equal(t, 0, book.BidCount())
	assert.Equal(t, 0, book.AskCount())

	// The trade reached the event journal and the read model.
	var trades int
	require.NoError(t, store.Replay(context.Background(), func(ev orderbookv1.Event) error {
		if ev.Type == orderbookv1.EventTradeExecuted {
			trades++
		}
		return nil
	}))
	assert.Equal(t, 1, trades)

	recent := e.Projector().Trades("BTC-USD")
	require.Len(t, recent, 1)
	assert.True(t, recent[0].Price.Equal(orderbookv1.PriceFromInt(491)))

	// Both inputs were journaled with their pipeline sequences.
	var seqs []uint64
	require.NoError(t, store.ReplayInputs(context.Background(), 0, func(seq uint64, _ orderbookv1.InputPayload) error {
		seqs = append(seqs, seq)
		return nil
	}))
	assert.Equal(t, []uint64{1, 2}, seqs)
}

func TestEngineRecoversFromInputJournal(t *testing.T) {
	store := journal.NewMemoryStore()

	first := newTestEngine(t, store)
	require.NoError(t, first.Start(context.Background()))
	publishLimit(t, first, 1, orderbookv1.SideSell, 1252, 200)
	publishLimit(t, first, 2, orderbookv1.SideSell, 1251, 300)
	publishLimit(t, first, 3, orderbookv1.SideBuy, 1251, 100)
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, first.Stop(stopCtx))
	want := first.Exchange().Book("BTC-USD").Snapshot()

	second := newTestEngine(t, store)
	require.NoError(t, second.Start(context.Background()))

	got := second.Exchange().Book("BTC-USD").Snapshot()
	require.Equal(t, len(want.Asks), len(got.Asks))
	for i := range want.Asks {
		assert.True(t, want.Asks[i].Equal(got.Asks[i]))
	}

	// New inputs continue the journaled sequence instead of reusing it.
	publishLimit(t, second, 4, orderbookv1.SideBuy, 1250, 50)
	stopCtx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	require.NoError(t, second.Stop(stopCtx2))

	var last uint64
	require.NoError(t, store.ReplayInputs(context.Background(), 0, func(seq uint64, _ orderbookv1.InputPayload) error {
		last = seq
		return nil
	}))
	assert.Equal(t, uint64(4), last)
}

func TestEngineDiscardsInconsistentSnapshotSet(t *testing.T) {
	store := journal.NewMemoryStore()
	ctx := context.Background()

	btcOrder := orderbookv1.NewOrder(1, 1, "BTC-USD", orderbookv1.SideBuy,
		orderbookv1.OrderTypeLimit, orderbookv1.PriceFromInt(491), orderbookv1.VolumeFromInt(100))
	ethOrder := orderbookv1.NewOrder(2, 1, "ETH-USD", orderbookv1.SideSell,
		orderbookv1.OrderTypeLimit, orderbookv1.PriceFromInt(30), orderbookv1.VolumeFromInt(50))
	require.NoError(t, store.StoreInput(ctx, 1, orderbookv1.NewOrderPayload(btcOrder)))
	require.NoError(t, store.StoreInput(ctx, 2, orderbookv1.NewOrderPayload(ethOrder)))

	// Snapshots taken at different points of the input stream, as a
	// partially failed save would leave behind.
	accepted := func(o *orderbookv1.Order) orderbookv1.Order {
		snap := o.Snapshot()
		snap.State = orderbookv1.OrderStateAccepted
		return snap
	}
	btcRaw, err := json.Marshal(orderbookv1.BookState{
		Pair: "BTC-USD", Bids: []orderbookv1.Order{accepted(btcOrder)}, InputSequence: 1,
	})
	require.NoError(t, err)
	ethRaw, err := json.Marshal(orderbookv1.BookState{
		Pair: "ETH-USD", Asks: []orderbookv1.Order{accepted(ethOrder)}, InputSequence: 2,
	})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	client := redismock.NewMockClient(ctrl)
	client.EXPECT().Get(gomock.Any(), "exchange:book:BTC-USD").Return(string(btcRaw), nil)
	client.EXPECT().Get(gomock.Any(), "exchange:book:ETH-USD").Return(string(ethRaw), nil)
	client.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := testConfig()
	cfg.Pairs = []orderbookv1.CurrencyPair{"BTC-USD", "ETH-USD"}
	e := New(cfg, Deps{
		Logger:     logger.NewNop(),
		InputStore: store,
		EventStore: store,
		Snapshots:  snapshot.NewStore(client, logger.NewNop()),
	})
	require.NoError(t, e.Start(ctx))

	// The mixed set is discarded and the full journal replayed, so no
	// pair loses the inputs below the other pair's snapshot sequence.
	assert.Equal(t, 1, e.Exchange().Book("BTC-USD").BidCount())
	assert.Equal(t, 1, e.Exchange().Book("ETH-USD").AskCount())
	assert.Equal(t, uint64(2), e.Exchange().LastInputSequence())

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Stop(stopCtx))
}

func TestEngineRejectionsFlowToEventJournal(t *testing.T) {
	store := journal.NewMemoryStore()
	e := newTestEngine(t, store)
	require.NoError(t, e.Start(context.Background()))

	_, err := e.Publish(orderbookv1.NewOrderPayload(orderbookv1.NewOrder(
		1, 1, "BTC-USD", orderbookv1.SideBuy,
		orderbookv1.OrderTypeLimit,
		orderbookv1.ZeroPrice(),
		orderbookv1.VolumeFromInt(100),
	)))
	require.NoError(t, err)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Stop(stopCtx))

	var rejected int
	require.NoError(t, store.Replay(context.Background(), func(ev orderbookv1.Event) error {
		if ev.Type == orderbookv1.EventOrderChanged && ev.Order != nil &&
			ev.Order.State == orderbookv1.OrderStateRejected {
			rejected++
		}
		return nil
	}))
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 0, e.Exchange().Book("BTC-USD").BidCount())
}
