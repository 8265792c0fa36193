package journal

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
	pgmock "github.com/52tanbivv/coin-exchange-backend/pkg/postgresql/mock"
)

type scanErrRow struct {
	err error
}

func (r scanErrRow) Scan(...any) error {
	return r.err
}

func TestPostgresStoreEventNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := pgmock.NewMockClient(ctrl)
	client.EXPECT().
		QueryRow(gomock.Any(), gomock.Any(), "ev-missing").
		Return(scanErrRow{err: pgx.ErrNoRows})

	_, err := NewPostgresStore(client).GetEvent(context.Background(), "ev-missing")
	assert.True(t, errors.ErrorCodeEquals(err, errors.ErrJournalEventNotFound))
}

func TestPostgresStoreMigrateWrapsExecError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := pgmock.NewMockClient(ctrl)
	client.EXPECT().
		Exec(gomock.Any(), gomock.Any()).
		Return(pgconn.CommandTag{}, assert.AnError)

	err := NewPostgresStore(client).Migrate(context.Background())
	assert.True(t, errors.ErrorCodeEquals(err, errors.ErrJournalStore))
}

func TestPostgresStoreTradeEventCarriesOrderIDColumns(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := pgmock.NewMockClient(ctrl)

	trade := orderbookv1.NewTrade(
		"tr-1", "BTC-USD",
		orderbookv1.PriceFromInt(491), orderbookv1.VolumeFromInt(100),
		orderbookv1.Order{ID: 11, Pair: "BTC-USD", Side: orderbookv1.SideBuy},
		orderbookv1.Order{ID: 22, Pair: "BTC-USD", Side: orderbookv1.SideSell},
		time.Now(),
	)
	event := orderbookv1.Event{
		ID:       "ev-1",
		Sequence: 3,
		Type:     orderbookv1.EventTradeExecuted,
		Pair:     "BTC-USD",
		Trade:    &trade,
	}

	var got []any
	client.EXPECT().
		Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			got = args
			return pgconn.CommandTag{}, nil
		})

	require.NoError(t, NewPostgresStore(client).StoreEvent(context.Background(), event))

	require.Len(t, got, 7)
	assert.Equal(t, "ev-1", got[0])
	assert.Equal(t, int64(3), got[1])
	buyID := got[4].(*int64)
	sellID := got[5].(*int64)
	require.NotNil(t, buyID)
	require.NotNil(t, sellID)
	assert.Equal(t, int64(11), *buyID)
	assert.Equal(t, int64(22), *sellID)
}
