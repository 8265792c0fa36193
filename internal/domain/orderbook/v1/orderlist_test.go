package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderListBidsSortDescending(t *testing.T) {
	l := NewOrderList(SideBuy)
	l.Add(newTestOrder(1, SideBuy, 490, 100))
	l.Add(newTestOrder(2, SideBuy, 495, 100))
	l.Add(newTestOrder(3, SideBuy, 492, 100))

	require.Equal(t, 3, l.Len())
	assert.Equal(t, OrderID(2), l.At(0).ID)
	assert.Equal(t, OrderID(3), l.At(1).ID)
	assert.Equal(t, OrderID(1), l.At(2).ID)
}

func TestOrderListAsksSortAscending(t *testing.T) {
	l := NewOrderList(SideSell)
	l.Add(newTestOrder(1, SideSell, 1252, 200))
	l.Add(newTestOrder(2, SideSell, 1251, 300))
	l.Add(newTestOrder(3, SideSell, 1251, 200))

	require.Equal(t, 3, l.Len())
	assert.Equal(t, OrderID(2), l.At(0).ID)
	assert.Equal(t, OrderID(3), l.At(1).ID)
	assert.Equal(t, OrderID(1), l.At(2).ID)
}

func TestOrderListZeroPriceSortsWorstOnBothSides(t *testing.T) {
	asks := NewOrderList(SideSell)
	asks.Add(newTestOrder(1, SideSell, 0, 100))
	asks.Add(newTestOrder(2, SideSell, 1251, 200))
	asks.Add(newTestOrder(3, SideSell, 0, 50))

	require.Equal(t, 3, asks.Len())
	assert.Equal(t, OrderID(2), asks.At(0).ID)
	assert.Equal(t, OrderID(1), asks.At(1).ID)
	assert.Equal(t, OrderID(3), asks.At(2).ID)

	bids := NewOrderList(SideBuy)
	bids.Add(newTestOrder(4, SideBuy, 0, 100))
	bids.Add(newTestOrder(5, SideBuy, 490, 100))

	assert.Equal(t, OrderID(5), bids.At(0).ID)
	assert.Equal(t, OrderID(4), bids.At(1).ID)
}

func TestOrderListEqualPricesKeepArrivalOrder(t *testing.T) {
	l := NewOrderList(SideBuy)
	for id := int64(1); id <= 5; id++ {
		l.Add(newTestOrder(id, SideBuy, 500, 10))
	}

	for i := 0; i < l.Len(); i++ {
		assert.Equal(t, OrderID(i+1), l.At(i).ID)
	}
}

func TestOrderListRemove(t *testing.T) {
	l := NewOrderList(SideSell)
	l.Add(newTestOrder(1, SideSell, 940, 100))
	l.Add(newTestOrder(2, SideSell, 941, 100))

	removed := l.Remove(1)
	require.NotNil(t, removed)
	assert.Equal(t, OrderID(1), removed.ID)
	assert.Equal(t, 1, l.Len())

	assert.Nil(t, l.Remove(1))
	assert.Nil(t, l.Find(1))
	assert.NotNil(t, l.Find(2))
}

func TestOrderListBest(t *testing.T) {
	l := NewOrderList(SideBuy)
	assert.Nil(t, l.Best())

	l.Add(newTestOrder(1, SideBuy, 490, 100))
	l.Add(newTestOrder(2, SideBuy, 495, 100))
	require.NotNil(t, l.Best())
	assert.Equal(t, OrderID(2), l.Best().ID)
}

func TestOrderListLevelsAggregateByPrice(t *testing.T) {
	l := NewOrderList(SideSell)
	l.Add(newTestOrder(1, SideSell, 1251, 300))
	l.Add(newTestOrder(2, SideSell, 1251, 200))
	l.Add(newTestOrder(3, SideSell, 1252, 200))

	levels := l.Levels()
	require.Len(t, levels, 2)

	assert.True(t, levels[0].Price.Equal(PriceFromInt(1251)))
	assert.True(t, levels[0].Volume.Equal(VolumeFromInt(500)))
	assert.Equal(t, 2, levels[0].OrderCount)

	assert.True(t, levels[1].Price.Equal(PriceFromInt(1252)))
	assert.True(t, levels[1].Volume.Equal(VolumeFromInt(200)))
	assert.Equal(t, 1, levels[1].OrderCount)
}
