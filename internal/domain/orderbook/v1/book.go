package orderbookv1

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity rejects submissions with non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice rejects submissions with a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")
)

// Book is a single-symbol limit order book with price-time priority
// matching. It is a single-threaded mutator: callers serialize access
// (the exchange wraps each book in a RWMutex).
//
// Timestamp policy: submissions must carry non-decreasing timestamps.
// An earlier timestamp is clamped up to the last accepted one rather
// than rejected, so replayed streams with coarse clocks still match
// deterministically.
type Book struct {
	bids *ladder
	asks *ladder

	// orders maps every resting id to its record, tombstones
	// included. Lazy cancel never touches it; entries leave on full
	// fill, eager cancel, or tombstone sweep.
	orders map[OrderID]*Order

	nextID     OrderID
	lastTS     int64
	liveOrders int
	lastTrade  *Trade
}

// NewBook creates an empty order book.
func NewBook() *Book {
	return &Book{
		bids:   newLadder(Bid),
		asks:   newLadder(Ask),
		orders: make(map[OrderID]*Order),
	}
}

// SubmitLimit validates and matches an incoming limit order, resting
// any residual on its own side. It returns the assigned id and the
// trades generated, in execution order. Validation failures allocate
// no id and mutate nothing.
func (b *Book) SubmitLimit(side Side, price, quantity, ts int64) (OrderID, []Trade, error) {
	if quantity <= 0 {
		return 0, nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if price < 0 {
		return 0, nil, fmt.Errorf("%w: got %d", ErrInvalidPrice, price)
	}
	if ts < b.lastTS {
		ts = b.lastTS
	}
	b.lastTS = ts

	b.nextID++
	taker := &Order{
		ID:        b.nextID,
		Side:      side,
		Price:     price,
		Remaining: quantity,
		ArrivalTS: ts,
		live:      true,
	}

	trades := b.match(taker)

	if taker.Remaining > 0 {
		b.ladder(side).insert(taker)
		b.orders[taker.ID] = taker
		b.liveOrders++
	}

	return taker.ID, trades, nil
}

// match walks the opposing ladder from the best price, draining
// levels head-first until the taker is exhausted or the book no
// longer crosses. Trades print at the maker's resting price.
func (b *Book) match(taker *Order) []Trade {
	var trades []Trade
	opp := b.ladder(taker.Side.Opposite())

	for taker.Remaining > 0 {
		lvl, ok := opp.best()
		if !ok || !crosses(taker, lvl.price) {
			break
		}

		head := lvl.peekHeadLive(b.unindex)
		if head == nil {
			// nothing live left at this price
			opp.deleteLevel(lvl.price)
			continue
		}

		fill := head.Remaining
		if taker.Remaining < fill {
			fill = taker.Remaining
		}

		trade := Trade{
			TakerID:  taker.ID,
			MakerID:  head.ID,
			Price:    lvl.price,
			Quantity: fill,
			TS:       taker.ArrivalTS,
		}
		trades = append(trades, trade)
		b.lastTrade = &trade

		if filled := lvl.fillHead(fill); filled != nil {
			b.unindex(filled)
			b.liveOrders--
		}
		taker.Remaining -= fill

		if lvl.head == nil {
			opp.deleteLevel(lvl.price)
		}
	}

	return trades
}

// CancelLazy tombstones the order in place. The queue entry survives
// until matching sweeps past it, and the index keeps pointing at the
// tombstone; only the level's live total is debited now. Returns
// false when the id is unknown or already dead.
func (b *Book) CancelLazy(id OrderID) bool {
	o, ok := b.orders[id]
	if !ok || !o.live {
		return false
	}
	o.level.markDead(o)
	b.liveOrders--
	return true
}

// CancelEager detaches the order immediately: it leaves its queue,
// the index, and, when no live order remains at the price, the level
// leaves the ladder. Returns false when the id is unknown or already
// dead.
func (b *Book) CancelEager(id OrderID) bool {
	o, ok := b.orders[id]
	if !ok || !o.live {
		return false
	}
	lvl := o.level
	lvl.remove(o)
	delete(b.orders, id)
	b.liveOrders--

	if lvl.emptyOfLive() {
		// tombstones queued behind the removed order go with the level
		lvl.drain(b.unindex)
		b.ladder(o.Side).deleteLevel(lvl.price)
	}
	return true
}

// BestBid returns the highest bid price, false when the side is empty.
func (b *Book) BestBid() (int64, bool) {
	return b.bids.bestPrice()
}

// BestAsk returns the lowest ask price, false when the side is empty.
func (b *Book) BestAsk() (int64, bool) {
	return b.asks.bestPrice()
}

// Mid returns the integer floor of the bid/ask midpoint. Defined only
// when both sides are non-empty.
func (b *Book) Mid() (int64, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	// arithmetic shift floors for negative sums, plain division does not
	return (bid + ask) >> 1, true
}

// Spread returns best ask minus best bid. Defined only when both
// sides are non-empty.
func (b *Book) Spread() (int64, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return ask - bid, true
}

// Depth reports the top levels of each side, best-first, with
// aggregate live quantity per level. Levels holding only tombstones
// are skipped. The query is read-only; it never sweeps.
func (b *Book) Depth(levels int) *DepthSnapshot {
	snapshot := &DepthSnapshot{
		Bids:          collectLevels(b.bids, levels),
		Asks:          collectLevels(b.asks, levels),
		BidLevelCount: b.bids.liveLevelCount(),
		AskLevelCount: b.asks.liveLevelCount(),
	}
	if bid, ok := b.BestBid(); ok {
		snapshot.BestBid = &bid
	}
	if ask, ok := b.BestAsk(); ok {
		snapshot.BestAsk = &ask
	}
	return snapshot
}

func collectLevels(ld *ladder, levels int) []LevelView {
	if levels <= 0 {
		return nil
	}
	views := make([]LevelView, 0, levels)
	ld.fromBest(func(lvl *priceLevel) bool {
		if lvl.totalQty > 0 {
			views = append(views, LevelView{Price: lvl.price, Quantity: lvl.totalQty})
		}
		return len(views) < levels
	})
	return views
}

// PeekBest returns the head live order on the best level of a side.
// Unlike matching, it never sweeps: tombstones are skipped in place
// so the read has no externally visible side effect.
func (b *Book) PeekBest(side Side) (OrderBest, bool) {
	var best OrderBest
	found := false
	b.ladder(side).fromBest(func(lvl *priceLevel) bool {
		for o := lvl.head; o != nil; o = o.next {
			if o.live {
				best = OrderBest{OrderID: o.ID, Price: o.Price, Quantity: o.Remaining}
				found = true
				return false
			}
		}
		return true // only tombstones at this price, keep walking
	})
	return best, found
}

// TotalLiveOrders reports how many live orders rest across both sides.
func (b *Book) TotalLiveOrders() int {
	return b.liveOrders
}

// QuantityAt reports the aggregate live quantity resting at an exact
// price on one side, zero when no level exists there.
func (b *Book) QuantityAt(side Side, price int64) int64 {
	lvl, ok := b.ladder(side).level(price)
	if !ok {
		return 0
	}
	return lvl.totalQty
}

// LastTrade returns the most recent trade printed by this book.
func (b *Book) LastTrade() (Trade, bool) {
	if b.lastTrade == nil {
		return Trade{}, false
	}
	return *b.lastTrade, true
}

func (b *Book) ladder(side Side) *ladder {
	if side == Bid {
		return b.bids
	}
	return b.asks
}

func (b *Book) unindex(o *Order) {
	delete(b.orders, o.ID)
}

// crosses reports whether the taker's limit reaches the opposing
// price. Equal prices cross.
func crosses(taker *Order, oppPrice int64) bool {
	if taker.Side == Bid {
		return oppPrice <= taker.Price
	}
	return oppPrice >= taker.Price
}
