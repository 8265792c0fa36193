package depth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/orderbook"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

type depthRecorder struct {
	depths []orderbookv1.Depth
	bbos   []orderbookv1.Bbo
}

func (r *depthRecorder) OnDepthChanged(d orderbookv1.Depth) {
	r.depths = append(r.depths, d)
}

func (r *depthRecorder) OnBboChanged(b orderbookv1.Bbo) {
	r.bbos = append(r.bbos, b)
}

func newWiredBook(t *testing.T, levels int) (*orderbook.Book, *Book, *depthRecorder) {
	t.Helper()
	lob := orderbook.NewBook("BTC-USD", logger.NewNop())
	view := NewBook("BTC-USD", levels)
	lob.Subscribe(view)
	rec := &depthRecorder{}
	view.Subscribe(rec)
	return lob, view, rec
}

func addLimit(t *testing.T, b *orderbook.Book, id int64, side orderbookv1.Side, price, volume int64) {
	t.Helper()
	b.AddOrder(orderbookv1.NewOrder(
		orderbookv1.OrderID(id), 1, "BTC-USD", side,
		orderbookv1.OrderTypeLimit,
		orderbookv1.PriceFromInt(price),
		orderbookv1.VolumeFromInt(volume),
	))
}

func TestDepthViewHasFixedSizePaddedSides(t *testing.T) {
	lob, view, _ := newWiredBook(t, 5)
	addLimit(t, lob, 1, orderbookv1.SideBuy, 490, 100)
	addLimit(t, lob, 2, orderbookv1.SideBuy, 489, 50)

	d := view.Depth()
	require.Len(t, d.Bids, 5)
	require.Len(t, d.Asks, 5)

	assert.False(t, d.Bids[0].IsEmpty())
	assert.False(t, d.Bids[1].IsEmpty())
	for i := 2; i < 5; i++ {
		assert.True(t, d.Bids[i].IsEmpty())
	}
	for i := 0; i < 5; i++ {
		assert.True(t, d.Asks[i].IsEmpty())
	}
}

func TestDepthAggregatesEqualPrices(t *testing.T) {
	lob, view, _ := newWiredBook(t, 5)
	addLimit(t, lob, 1, orderbookv1.SideSell, 1251, 300)
	addLimit(t, lob, 2, orderbookv1.SideSell, 1251, 200)
	addLimit(t, lob, 3, orderbookv1.SideSell, 1252, 200)

	d := view.Depth()
	assert.True(t, d.Asks[0].Price.Equal(orderbookv1.PriceFromInt(1251)))
	assert.True(t, d.Asks[0].Volume.Equal(orderbookv1.VolumeFromInt(500)))
	assert.Equal(t, 2, d.Asks[0].OrderCount)
	assert.True(t, d.Asks[1].Price.Equal(orderbookv1.PriceFromInt(1252)))
}

func TestDepthClampsToConfiguredLevels(t *testing.T) {
	lob, view, _ := newWiredBook(t, 2)
	for i := int64(0); i < 4; i++ {
		addLimit(t, lob, i+1, orderbookv1.SideBuy, 490-i, 10)
	}

	d := view.Depth()
	require.Len(t, d.Bids, 2)
	assert.True(t, d.Bids[0].Price.Equal(orderbookv1.PriceFromInt(490)))
	assert.True(t, d.Bids[1].Price.Equal(orderbookv1.PriceFromInt(489)))
}

func TestBboEmittedOnlyOnTopOfBookChange(t *testing.T) {
	lob, _, rec := newWiredBook(t, 5)

	addLimit(t, lob, 1, orderbookv1.SideBuy, 490, 100)
	require.Len(t, rec.bbos, 1)

	// Deeper bid changes depth but not the top of book.
	addLimit(t, lob, 2, orderbookv1.SideBuy, 489, 100)
	assert.Len(t, rec.bbos, 1)
	assert.Len(t, rec.depths, 2)

	// A better bid moves the top.
	addLimit(t, lob, 3, orderbookv1.SideBuy, 491, 100)
	require.Len(t, rec.bbos, 2)
	assert.True(t, rec.bbos[1].BestBid.Price.Equal(orderbookv1.PriceFromInt(491)))

	addLimit(t, lob, 4, orderbookv1.SideSell, 495, 100)
	require.Len(t, rec.bbos, 3)
	assert.True(t, rec.bbos[2].BestAsk.Price.Equal(orderbookv1.PriceFromInt(495)))
}

func TestDepthFollowsFillsAndCancels(t *testing.T) {
	lob, view, _ := newWiredBook(t, 5)
	addLimit(t, lob, 1, orderbookv1.SideBuy, 490, 100)
	addLimit(t, lob, 2, orderbookv1.SideSell, 490, 40)

	d := view.Depth()
	assert.True(t, d.Bids[0].Volume.Equal(orderbookv1.VolumeFromInt(60)))

	require.True(t, lob.CancelOrder(1))
	d = view.Depth()
	assert.True(t, d.Bids[0].IsEmpty())
	assert.True(t, view.Bbo().BestBid.IsEmpty())
}
