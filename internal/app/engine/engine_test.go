package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	depthcache_mock "github.com/muhammadchandra19/hftx/internal/domain/depth-cache/v1/mock"
	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
	matchpublisher_mock "github.com/muhammadchandra19/hftx/internal/domain/match-publisher/v1/mock"
	orderreader_mock "github.com/muhammadchandra19/hftx/internal/domain/order-reader/v1/mock"
	"github.com/muhammadchandra19/hftx/internal/usecase/exchange"
	"github.com/muhammadchandra19/hftx/pkg/logger"
)

type engineFixture struct {
	engine    *Engine
	exchange  *exchange.Exchange
	reader    *orderreader_mock.MockOrderReader
	publisher *matchpublisher_mock.MockMatchPublisher
	depths    *depthcache_mock.MockStore
}

func newEngineFixture(t *testing.T, symbols ...string) *engineFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger(logger.WithOutputPaths([]string{"stderr"}))
	require.NoError(t, err)

	ex := exchange.New(symbols, log)
	reader := orderreader_mock.NewMockOrderReader(ctrl)
	publisher := matchpublisher_mock.NewMockMatchPublisher(ctrl)
	depths := depthcache_mock.NewMockStore(ctrl)

	eng := NewEngine(ex, reader, publisher, depths, log, decimal.RequireFromString("0.01"), nil)
	return &engineFixture{
		engine:    eng,
		exchange:  ex,
		reader:    reader,
		publisher: publisher,
		depths:    depths,
	}
}

func limitPayload(symbol, side, price string, qty int64) *marketv1.PlaceOrderPayload {
	return &marketv1.PlaceOrderPayload{
		Type:     marketv1.OrderTypeLimit,
		Symbol:   symbol,
		Side:     side,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
}

func TestEngine_ProcessOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("resting order publishes nothing", func(t *testing.T) {
		f := newEngineFixture(t, "AAPL")

		err := f.engine.processOrder(ctx, limitPayload("AAPL", "ask", "100.00", 10))
		require.NoError(t, err)

		ask, err := f.exchange.Depth("AAPL", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), ask.Asks[0].Price)
		assert.Equal(t, int64(10), ask.Asks[0].Quantity)
	})

	t.Run("crossing order publishes each trade", func(t *testing.T) {
		f := newEngineFixture(t, "AAPL")

		require.NoError(t, f.engine.processOrder(ctx, limitPayload("AAPL", "ask", "100.00", 2)))
		require.NoError(t, f.engine.processOrder(ctx, limitPayload("AAPL", "ask", "100.01", 2)))

		f.publisher.EXPECT().
			PublishMatchEvent(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		require.NoError(t, f.engine.processOrder(ctx, limitPayload("AAPL", "bid", "100.01", 4)))
	})

	t.Run("cancel payload", func(t *testing.T) {
		f := newEngineFixture(t, "AAPL")

		require.NoError(t, f.engine.processOrder(ctx, limitPayload("AAPL", "bid", "99.50", 5)))
		require.NoError(t, f.engine.processOrder(ctx, &marketv1.PlaceOrderPayload{
			Type:    marketv1.OrderTypeCancel,
			Symbol:  "AAPL",
			OrderID: 1,
		}))

		depth, err := f.exchange.Depth("AAPL", 1)
		require.NoError(t, err)
		assert.Empty(t, depth.Bids)
	})

	t.Run("bad side rejected", func(t *testing.T) {
		f := newEngineFixture(t, "AAPL")
		err := f.engine.processOrder(ctx, limitPayload("AAPL", "short", "100.00", 1))
		assert.ErrorIs(t, err, marketv1.ErrInvalidSide)
	})

	t.Run("off-tick price rejected", func(t *testing.T) {
		f := newEngineFixture(t, "AAPL")
		err := f.engine.processOrder(ctx, limitPayload("AAPL", "bid", "100.005", 1))
		assert.ErrorIs(t, err, marketv1.ErrPriceOffTick)
	})

	t.Run("unknown symbol rejected", func(t *testing.T) {
		f := newEngineFixture(t, "AAPL")
		err := f.engine.processOrder(ctx, limitPayload("TSLA", "bid", "100.00", 1))
		assert.ErrorIs(t, err, exchange.ErrSymbolNotFound)
	})
}

func TestEngine_Snapshot(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t, "AAPL", "TSLA")

	require.NoError(t, f.engine.processOrder(ctx, limitPayload("AAPL", "bid", "99.50", 5)))

	f.depths.EXPECT().
		Store(gomock.Any(), "AAPL", gomock.Any()).
		Return(nil).
		Times(1)
	f.depths.EXPECT().
		Store(gomock.Any(), "TSLA", gomock.Any()).
		Return(nil).
		Times(1)

	f.engine.snapshot(ctx)
}
