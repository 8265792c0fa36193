package snapshot

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
	"github.com/52tanbivv/coin-exchange-backend/pkg/redis/mock"
)

func testState() orderbookv1.BookState {
	return orderbookv1.BookState{
		Pair:          "BTC-USD",
		InputSequence: 42,
		Bids: []orderbookv1.Order{
			{
				ID:           1,
				Pair:         "BTC-USD",
				Side:         orderbookv1.SideBuy,
				Type:         orderbookv1.OrderTypeLimit,
				Price:        orderbookv1.PriceFromInt(491),
				Volume:       orderbookv1.VolumeFromInt(100),
				OpenQuantity: orderbookv1.VolumeFromInt(100),
				State:        orderbookv1.OrderStateAccepted,
			},
		},
	}
}

func TestSaveWritesPairKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	store := NewStore(client, logger.NewNop())

	state := testState()
	raw, err := json.Marshal(state)
	require.NoError(t, err)

	client.EXPECT().
		Set(gomock.Any(), "exchange:book:BTC-USD", string(raw), gomock.Any()).
		Return(nil)

	require.NoError(t, store.Save(context.Background(), state))
}

func TestLoadRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	store := NewStore(client, logger.NewNop())

	state := testState()
	raw, err := json.Marshal(state)
	require.NoError(t, err)

	client.EXPECT().
		Get(gomock.Any(), "exchange:book:BTC-USD").
		Return(string(raw), nil)

	got, ok, err := store.Load(context.Background(), "BTC-USD")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), got.InputSequence)
	require.Len(t, got.Bids, 1)
	assert.True(t, got.Bids[0].Price.Equal(orderbookv1.PriceFromInt(491)))
}

func TestLoadMissingSnapshotIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	store := NewStore(client, logger.NewNop())

	client.EXPECT().
		Get(gomock.Any(), "exchange:book:ETH-USD").
		Return("", nil)

	_, ok, err := store.Load(context.Background(), "ETH-USD")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadCorruptSnapshotFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	store := NewStore(client, logger.NewNop())

	client.EXPECT().
		Get(gomock.Any(), "exchange:book:BTC-USD").
		Return("{not json", nil)

	_, _, err := store.Load(context.Background(), "BTC-USD")
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, errors.RedisGetError))
}
