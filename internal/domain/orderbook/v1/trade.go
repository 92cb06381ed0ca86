package orderbookv1

// Trade is the immutable record of a fill between two orders. The
// price is always the maker's resting price; the timestamp is the
// taker's arrival time.
type Trade struct {
	TakerID  OrderID `json:"takerId"`
	MakerID  OrderID `json:"makerId"`
	Price    int64   `json:"price"`
	Quantity int64   `json:"quantity"`
	TS       int64   `json:"ts"`
}
