package marketv1

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
)

func TestParseSide(t *testing.T) {
	side, err := ParseSide("bid")
	require.NoError(t, err)
	assert.Equal(t, orderbookv1.Bid, side)

	side, err = ParseSide("sell")
	require.NoError(t, err)
	assert.Equal(t, orderbookv1.Ask, side)

	_, err = ParseSide("short")
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestPlaceOrderPayload_PriceTicks(t *testing.T) {
	tick := decimal.RequireFromString("0.01")

	t.Run("on-grid price converts", func(t *testing.T) {
		payload := PlaceOrderPayload{Price: decimal.RequireFromString("195.43")}
		ticks, err := payload.PriceTicks(tick)
		require.NoError(t, err)
		assert.Equal(t, int64(19543), ticks)
	})

	t.Run("off-grid price rejected", func(t *testing.T) {
		payload := PlaceOrderPayload{Price: decimal.RequireFromString("195.435")}
		_, err := payload.PriceTicks(tick)
		assert.ErrorIs(t, err, ErrPriceOffTick)
	})

	t.Run("non-positive tick size rejected", func(t *testing.T) {
		payload := PlaceOrderPayload{Price: decimal.RequireFromString("10")}
		_, err := payload.PriceTicks(decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidTickSize)
	})
}

func TestTicksToPrice(t *testing.T) {
	tick := decimal.RequireFromString("0.01")
	assert.True(t, TicksToPrice(19543, tick).Equal(decimal.RequireFromString("195.43")))
}

func TestNewTradeEvent(t *testing.T) {
	trade := orderbookv1.Trade{TakerID: 2, MakerID: 1, Price: 100, Quantity: 5, TS: 42}
	event := NewTradeEvent("AAPL", trade)

	assert.Len(t, event.EventID, 26) // ulid string form
	assert.Equal(t, "AAPL", event.Symbol)
	assert.Equal(t, trade, event.Trade)
}
