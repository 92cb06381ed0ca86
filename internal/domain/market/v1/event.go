package marketv1

import (
	"github.com/oklog/ulid/v2"

	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
)

// TradeEvent is the match egress message fanned out to the match
// topic and to websocket subscribers.
type TradeEvent struct {
	EventID string            `json:"eventId"`
	Symbol  string            `json:"symbol"`
	Trade   orderbookv1.Trade `json:"trade"`
}

// NewTradeEvent stamps a fresh ULID onto a trade.
func NewTradeEvent(symbol string, trade orderbookv1.Trade) TradeEvent {
	return TradeEvent{
		EventID: ulid.Make().String(),
		Symbol:  symbol,
		Trade:   trade,
	}
}

// BookState is the top-of-book summary served by the REST surface.
type BookState struct {
	Symbol     string `json:"symbol"`
	BestBid    *int64 `json:"bestBid,omitempty"`
	BestAsk    *int64 `json:"bestAsk,omitempty"`
	BidLevels  int    `json:"bidLevels"`
	AskLevels  int    `json:"askLevels"`
	LastUpdate int64  `json:"lastUpdate"`
}

// DepthUpdate is the websocket depth-stream frame, pushed when the
// top of book changes.
type DepthUpdate struct {
	Symbol    string `json:"symbol"`
	BestBid   *int64 `json:"bestBid,omitempty"`
	BestAsk   *int64 `json:"bestAsk,omitempty"`
	BidSize   int64  `json:"bidSize"`
	AskSize   int64  `json:"askSize"`
	Timestamp int64  `json:"timestamp"`
}
