package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
	"github.com/muhammadchandra19/hftx/pkg/logger"
)

const (
	streamBuffer      = 256
	pingInterval      = 30 * time.Second
	depthPollInterval = 100 * time.Millisecond
	writeWait         = 10 * time.Second
)

type outboundMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// handleTradeStream pushes every trade printed on the symbol to the
// client as it occurs.
func (s *Server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.ErrorContext(r.Context(), err,
			logger.Field{Key: "stream", Value: "trades"},
			logger.Field{Key: "symbol", Value: symbol},
		)
		return
	}
	defer conn.Close()

	sub := s.exchange.Subscribe(streamBuffer)
	defer s.exchange.Unsubscribe(sub)

	done := readUntilClosed(conn)
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case event, ok := <-sub.C():
			if !ok {
				return
			}
			if event.Symbol != symbol {
				continue
			}
			if err := s.writeStream(conn, outboundMessage{Type: "trade", Data: event}); err != nil {
				return
			}
		case <-ping.C:
			if err := s.writePing(conn); err != nil {
				return
			}
		}
	}
}

// handleDepthStream sends an initial top-of-book snapshot, then an
// update whenever the top of book moves, polled at 10 Hz.
func (s *Server) handleDepthStream(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	if _, _, err := s.exchange.BestPrices(symbol); err != nil {
		s.writeExchangeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.ErrorContext(r.Context(), err,
			logger.Field{Key: "stream", Value: "depth"},
			logger.Field{Key: "symbol", Value: symbol},
		)
		return
	}
	defer conn.Close()

	done := readUntilClosed(conn)
	poll := time.NewTicker(depthPollInterval)
	defer poll.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	var lastBid, lastAsk *int64
	if update, err := s.depthUpdate(symbol); err == nil {
		lastBid, lastAsk = update.BestBid, update.BestAsk
		if err := s.writeStream(conn, outboundMessage{Type: "depth", Data: update}); err != nil {
			return
		}
	}

	for {
		select {
		case <-done:
			return
		case <-poll.C:
			update, err := s.depthUpdate(symbol)
			if err != nil {
				return
			}
			if samePrice(update.BestBid, lastBid) && samePrice(update.BestAsk, lastAsk) {
				continue
			}
			lastBid, lastAsk = update.BestBid, update.BestAsk
			if err := s.writeStream(conn, outboundMessage{Type: "depth", Data: update}); err != nil {
				return
			}
		case <-ping.C:
			if err := s.writePing(conn); err != nil {
				return
			}
		}
	}
}

func (s *Server) depthUpdate(symbol string) (*marketv1.DepthUpdate, error) {
	depth, err := s.exchange.Depth(symbol, 1)
	if err != nil {
		return nil, err
	}
	update := &marketv1.DepthUpdate{
		Symbol:    symbol,
		BestBid:   depth.BestBid,
		BestAsk:   depth.BestAsk,
		Timestamp: time.Now().UnixNano(),
	}
	if len(depth.Bids) > 0 {
		update.BidSize = depth.Bids[0].Quantity
	}
	if len(depth.Asks) > 0 {
		update.AskSize = depth.Asks[0].Quantity
	}
	return update, nil
}

func (s *Server) writeStream(conn *websocket.Conn, msg outboundMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func (s *Server) writePing(conn *websocket.Conn) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.PingMessage, nil)
}

func samePrice(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// readUntilClosed drains client frames (pings, pongs, close) and
// signals when the connection goes away.
func readUntilClosed(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}
