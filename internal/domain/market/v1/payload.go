package marketv1

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
)

var (
	// ErrInvalidSide rejects an unrecognized side token.
	ErrInvalidSide = errors.New("side must be bid or ask")
	// ErrPriceOffTick rejects a price that is not a whole number of ticks.
	ErrPriceOffTick = errors.New("price is not a multiple of the tick size")
	// ErrInvalidTickSize rejects a non-positive tick size.
	ErrInvalidTickSize = errors.New("tick size must be positive")
)

// OrderType distinguishes intake messages on the order topic.
type OrderType string

const (
	// OrderTypeLimit represents a limit order submission.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeCancel represents a cancellation of a resting order.
	OrderTypeCancel OrderType = "cancel"
)

// PlaceOrderPayload is the order intake message, shared by the kafka
// order topic and the HTTP submit endpoint. Prices travel as decimals
// and are converted to integer ticks at this boundary; the book never
// sees a fraction.
type PlaceOrderPayload struct {
	Type     OrderType       `json:"type"`
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`

	// OrderID is the cancel target; ignored for limit submissions.
	OrderID uint64 `json:"orderId,omitempty"`
	// Eager selects eager cancellation over the default lazy mode.
	Eager bool `json:"eager,omitempty"`

	// Offset is the position in the order stream, set by the reader.
	Offset int64 `json:"-"`
}

// ParseSide maps a wire token to a book side.
func ParseSide(token string) (orderbookv1.Side, error) {
	switch token {
	case "bid", "buy":
		return orderbookv1.Bid, nil
	case "ask", "sell":
		return orderbookv1.Ask, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrInvalidSide, token)
	}
}

// PriceTicks converts the decimal price into integer ticks, rejecting
// prices that do not land exactly on the tick grid.
func (p *PlaceOrderPayload) PriceTicks(tickSize decimal.Decimal) (int64, error) {
	if tickSize.Sign() <= 0 {
		return 0, ErrInvalidTickSize
	}
	ratio := p.Price.Div(tickSize)
	if !ratio.IsInteger() {
		return 0, fmt.Errorf("%w: %s / %s", ErrPriceOffTick, p.Price, tickSize)
	}
	return ratio.IntPart(), nil
}

// TicksToPrice renders integer ticks back into a decimal price for
// the wire.
func TicksToPrice(ticks int64, tickSize decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(ticks).Mul(tickSize)
}
