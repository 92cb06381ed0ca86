package engine

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	depthcachev1 "github.com/muhammadchandra19/hftx/internal/domain/depth-cache/v1"
	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
	matchpublisherv1 "github.com/muhammadchandra19/hftx/internal/domain/match-publisher/v1"
	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
	orderreaderv1 "github.com/muhammadchandra19/hftx/internal/domain/order-reader/v1"
	"github.com/muhammadchandra19/hftx/internal/usecase/exchange"
	"github.com/muhammadchandra19/hftx/pkg/logger"
)

// Engine glues the order stream to the exchange. It consumes intake
// messages, applies them to the per-symbol books, publishes the
// resulting match events, and refreshes the depth cache on an
// interval.
type Engine struct {
	exchange  *exchange.Exchange
	reader    orderreaderv1.OrderReader
	publisher matchpublisherv1.MatchPublisher
	depths    depthcachev1.Store
	logger    logger.Interface
	opts      *Options
	tickSize  decimal.Decimal

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine wires an engine from its collaborators.
func NewEngine(
	ex *exchange.Exchange,
	reader orderreaderv1.OrderReader,
	publisher matchpublisherv1.MatchPublisher,
	depths depthcachev1.Store,
	log logger.Interface,
	tickSize decimal.Decimal,
	opts *Options,
) *Engine {
	if opts == nil {
		opts = DefaultEngineOptions()
	}
	return &Engine{
		exchange:  ex,
		reader:    reader,
		publisher: publisher,
		depths:    depths,
		logger:    log,
		opts:      opts,
		tickSize:  tickSize,
	}
}

// Start launches the consume and snapshot loops.
func (e *Engine) Start(ctx context.Context) {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.consumeLoop()
	go e.snapshotLoop()

	e.logger.Info("engine started",
		logger.Field{Key: "symbols", Value: e.exchange.ListSymbols()},
		logger.Field{Key: "snapshotInterval", Value: e.opts.SnapshotInterval.String()},
	)
}

// Stop terminates the loops and waits for them to drain.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	e.logger.Info("engine stopped")
}

func (e *Engine) consumeLoop() {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		default:
		}

		_, payload, err := e.reader.ReadMessage(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			continue // ReadMessage already logged it
		}

		if err := e.processOrder(e.ctx, payload); err != nil {
			// rejections are normal flow, not failures
			e.logger.WarnContext(e.ctx, "order rejected",
				logger.Field{Key: "symbol", Value: payload.Symbol},
				logger.Field{Key: "reason", Value: err.Error()},
				logger.Field{Key: "offset", Value: payload.Offset},
			)
		}
	}
}

// processOrder applies one intake message to the exchange and
// publishes any trades it produced, in execution order.
func (e *Engine) processOrder(ctx context.Context, payload *marketv1.PlaceOrderPayload) error {
	if payload.Type == marketv1.OrderTypeCancel {
		_, err := e.exchange.Cancel(ctx, payload.Symbol, orderbookv1.OrderID(payload.OrderID), payload.Eager)
		return err
	}

	side, err := marketv1.ParseSide(payload.Side)
	if err != nil {
		return err
	}
	price, err := payload.PriceTicks(e.tickSize)
	if err != nil {
		return err
	}

	_, trades, err := e.exchange.SubmitLimit(ctx, payload.Symbol, side, price, payload.Quantity)
	if err != nil {
		return err
	}

	for _, trade := range trades {
		event := marketv1.NewTradeEvent(payload.Symbol, trade)
		if err := e.publisher.PublishMatchEvent(ctx, &event); err != nil {
			e.logger.ErrorContext(ctx, err,
				logger.Field{Key: "eventId", Value: event.EventID},
				logger.Field{Key: "symbol", Value: payload.Symbol},
			)
		}
	}
	return nil
}

func (e *Engine) snapshotLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.opts.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			e.snapshot(e.ctx)
		}
	}
}

// snapshot refreshes the depth cache for every listed symbol.
func (e *Engine) snapshot(ctx context.Context) {
	for _, symbol := range e.exchange.ListSymbols() {
		depth, err := e.exchange.Depth(symbol, e.opts.DepthLevels)
		if err != nil {
			e.logger.ErrorContext(ctx, err,
				logger.Field{Key: "symbol", Value: symbol},
			)
			continue
		}
		if err := e.depths.Store(ctx, symbol, depth); err != nil {
			e.logger.ErrorContext(ctx, err,
				logger.Field{Key: "symbol", Value: symbol},
			)
		}
	}
}
