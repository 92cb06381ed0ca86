package orderbookv1

// LevelView is the aggregate live quantity resting at one price.
type LevelView struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
}

// OrderBest identifies the order first in line at the best price of a
// side, with its remaining quantity.
type OrderBest struct {
	OrderID  OrderID `json:"orderId"`
	Price    int64   `json:"price"`
	Quantity int64   `json:"quantity"`
}

// DepthSnapshot is the wire-stable depth report. Bids descend and
// asks ascend by price, both best-first, and only levels with live
// quantity are listed. The level counts cover the whole book, not
// just the truncated slices.
type DepthSnapshot struct {
	Bids          []LevelView `json:"bids"`
	Asks          []LevelView `json:"asks"`
	BestBid       *int64      `json:"bestBid,omitempty"`
	BestAsk       *int64      `json:"bestAsk,omitempty"`
	BidLevelCount int         `json:"bidLevelCount"`
	AskLevelCount int         `json:"askLevelCount"`
}
