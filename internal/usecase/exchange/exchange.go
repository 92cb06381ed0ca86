package exchange

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/hftx/pkg/logger"
)

// ErrSymbolNotFound is returned for requests naming a symbol the
// exchange does not list.
var ErrSymbolNotFound = errors.New("symbol not listed")

// bookHandle pairs one book with the lock that serializes it. The
// book itself is a single-threaded mutator; everything concurrent
// stops here.
type bookHandle struct {
	mu   sync.RWMutex
	book *orderbookv1.Book
}

// Exchange routes operations to per-symbol order books and fans
// executed trades out to subscribers. Symbols are independent: the
// exchange guarantees nothing across books.
type Exchange struct {
	mu    sync.RWMutex
	books map[string]*bookHandle

	trades *Hub[marketv1.TradeEvent]
	logger logger.Interface
	now    func() time.Time
}

// New creates an exchange pre-listing the given symbols.
func New(symbols []string, log logger.Interface) *Exchange {
	e := &Exchange{
		books:  make(map[string]*bookHandle),
		trades: NewHub[marketv1.TradeEvent](),
		logger: log,
		now:    time.Now,
	}
	for _, symbol := range symbols {
		e.books[symbol] = &bookHandle{book: orderbookv1.NewBook()}
	}
	return e
}

// Subscribe attaches a receiver to the trade event stream.
func (e *Exchange) Subscribe(buffer int) *Subscription[marketv1.TradeEvent] {
	return e.trades.Subscribe(buffer)
}

// Unsubscribe detaches a trade event receiver.
func (e *Exchange) Unsubscribe(sub *Subscription[marketv1.TradeEvent]) {
	e.trades.Unsubscribe(sub)
}

// SubmitLimit stamps an arrival time on the order and hands it to the
// symbol's book. Trade events are broadcast before the book lock is
// released, so subscribers observe trades of successive submissions
// in submission order.
func (e *Exchange) SubmitLimit(ctx context.Context, symbol string, side orderbookv1.Side, price, quantity int64) (orderbookv1.OrderID, []orderbookv1.Trade, error) {
	h, err := e.handle(symbol)
	if err != nil {
		return 0, nil, err
	}

	h.mu.Lock()
	id, trades, err := h.book.SubmitLimit(side, price, quantity, e.now().UnixNano())
	if err != nil {
		h.mu.Unlock()
		return 0, nil, err
	}
	for _, trade := range trades {
		e.trades.Broadcast(marketv1.NewTradeEvent(symbol, trade))
	}
	h.mu.Unlock()

	e.logger.DebugContext(ctx, "order accepted",
		logger.Field{Key: "symbol", Value: symbol},
		logger.Field{Key: "orderId", Value: id},
		logger.Field{Key: "side", Value: side.String()},
		logger.Field{Key: "trades", Value: len(trades)},
	)
	return id, trades, nil
}

// Cancel removes a resting order, lazily by default or eagerly on
// request. It reports whether a live order was actually cancelled.
func (e *Exchange) Cancel(ctx context.Context, symbol string, id orderbookv1.OrderID, eager bool) (bool, error) {
	h, err := e.handle(symbol)
	if err != nil {
		return false, err
	}

	h.mu.Lock()
	var ok bool
	if eager {
		ok = h.book.CancelEager(id)
	} else {
		ok = h.book.CancelLazy(id)
	}
	h.mu.Unlock()

	e.logger.DebugContext(ctx, "order cancel",
		logger.Field{Key: "symbol", Value: symbol},
		logger.Field{Key: "orderId", Value: id},
		logger.Field{Key: "eager", Value: eager},
		logger.Field{Key: "cancelled", Value: ok},
	)
	return ok, nil
}

// Depth returns the top levels of the symbol's book.
func (e *Exchange) Depth(symbol string, levels int) (*orderbookv1.DepthSnapshot, error) {
	h, err := e.handle(symbol)
	if err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.book.Depth(levels), nil
}

// State returns the top-of-book summary for the symbol.
func (e *Exchange) State(symbol string) (*marketv1.BookState, error) {
	h, err := e.handle(symbol)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	state := &marketv1.BookState{
		Symbol:     symbol,
		LastUpdate: e.now().UnixNano(),
	}
	if bid, ok := h.book.BestBid(); ok {
		state.BestBid = &bid
	}
	if ask, ok := h.book.BestAsk(); ok {
		state.BestAsk = &ask
	}
	depth := h.book.Depth(0)
	state.BidLevels = depth.BidLevelCount
	state.AskLevels = depth.AskLevelCount
	return state, nil
}

// BestPrices returns the best bid and ask, either nil when that side
// is empty.
func (e *Exchange) BestPrices(symbol string) (*int64, *int64, error) {
	h, err := e.handle(symbol)
	if err != nil {
		return nil, nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	var bidPtr, askPtr *int64
	if bid, ok := h.book.BestBid(); ok {
		bidPtr = &bid
	}
	if ask, ok := h.book.BestAsk(); ok {
		askPtr = &ask
	}
	return bidPtr, askPtr, nil
}

// PeekBest returns the head live order at the best price of a side.
func (e *Exchange) PeekBest(symbol string, side orderbookv1.Side) (orderbookv1.OrderBest, bool, error) {
	h, err := e.handle(symbol)
	if err != nil {
		return orderbookv1.OrderBest{}, false, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	best, ok := h.book.PeekBest(side)
	return best, ok, nil
}

// ListSymbols returns the listed symbols in lexical order.
func (e *Exchange) ListSymbols() []string {
	e.mu.RLock()
	symbols := make([]string, 0, len(e.books))
	for symbol := range e.books {
		symbols = append(symbols, symbol)
	}
	e.mu.RUnlock()
	sort.Strings(symbols)
	return symbols
}

// AddSymbol lists a new symbol with an empty book. Existing books are
// left untouched.
func (e *Exchange) AddSymbol(symbol string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.books[symbol]; ok {
		return
	}
	e.books[symbol] = &bookHandle{book: orderbookv1.NewBook()}
}

func (e *Exchange) handle(symbol string) (*bookHandle, error) {
	e.mu.RLock()
	h, ok := e.books[symbol]
	e.mu.RUnlock()
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return h, nil
}
