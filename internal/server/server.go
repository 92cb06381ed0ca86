package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/hftx/internal/usecase/exchange"
	pkgerrors "github.com/muhammadchandra19/hftx/pkg/errors"
	"github.com/muhammadchandra19/hftx/pkg/logger"
)

// Server is the HTTP and WebSocket surface of the exchange. It maps
// transport requests onto exchange operations; all trading semantics
// live below it.
type Server struct {
	exchange    *exchange.Exchange
	logger      logger.Interface
	tickSize    decimal.Decimal
	depthLevels int
	upgrader    websocket.Upgrader
}

// New creates a server around the given exchange.
func New(ex *exchange.Exchange, log logger.Interface, tickSize decimal.Decimal, depthLevels int) *Server {
	return &Server{
		exchange:    ex,
		logger:      log,
		tickSize:    tickSize,
		depthLevels: depthLevels,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.withRequestID)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/symbols", s.handleSymbols).Methods(http.MethodGet)
	r.HandleFunc("/symbols/{symbol}/orderbook", s.handleOrderbook).Methods(http.MethodGet)
	r.HandleFunc("/symbols/{symbol}/depth", s.handleDepth).Methods(http.MethodGet)
	r.HandleFunc("/symbols/{symbol}/orders", s.handleSubmitOrder).Methods(http.MethodPost)
	r.HandleFunc("/symbols/{symbol}/orders/{orderId}", s.handleCancelOrder).Methods(http.MethodDelete)
	r.HandleFunc("/symbols/{symbol}/trades/stream", s.handleTradeStream).Methods(http.MethodGet)
	r.HandleFunc("/symbols/{symbol}/depth/stream", s.handleDepthStream).Methods(http.MethodGet)
	return r
}

// SubmitOrderResponse is returned after an order submission.
type SubmitOrderResponse struct {
	OrderID orderbookv1.OrderID `json:"orderId"`
	Status  string              `json:"status"` // accepted, partial, filled
	Trades  []orderbookv1.Trade `json:"trades"`
}

// CancelOrderResponse is returned after a cancellation attempt.
type CancelOrderResponse struct {
	Cancelled bool `json:"cancelled"`
}

// SymbolsResponse lists the tradable symbols.
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, SymbolsResponse{Symbols: s.exchange.ListSymbols()})
}

func (s *Server) handleOrderbook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	state, err := s.exchange.State(symbol)
	if err != nil {
		s.writeExchangeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	levels := s.depthLevels
	if raw := r.URL.Query().Get("levels"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, pkgerrors.GeneralBadRequestError, "levels must be a positive integer")
			return
		}
		levels = parsed
	}

	depth, err := s.exchange.Depth(symbol, levels)
	if err != nil {
		s.writeExchangeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, depth)
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var payload marketv1.PlaceOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, pkgerrors.GeneralBadRequestError, "malformed request body")
		return
	}
	payload.Symbol = symbol

	side, err := marketv1.ParseSide(payload.Side)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidSide, err.Error())
		return
	}
	price, err := payload.PriceTicks(s.tickSize)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, pkgerrors.ErrPriceOffTick, err.Error())
		return
	}

	id, trades, err := s.exchange.SubmitLimit(r.Context(), symbol, side, price, payload.Quantity)
	if err != nil {
		s.writeExchangeError(w, r, err)
		return
	}

	var filled int64
	for _, trade := range trades {
		filled += trade.Quantity
	}
	status := "accepted"
	switch {
	case filled == payload.Quantity:
		status = "filled"
	case filled > 0:
		status = "partial"
	}

	if trades == nil {
		trades = []orderbookv1.Trade{}
	}
	s.writeJSON(w, http.StatusOK, SubmitOrderResponse{OrderID: id, Status: status, Trades: trades})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	id, err := strconv.ParseUint(vars["orderId"], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, pkgerrors.GeneralBadRequestError, "order id must be an unsigned integer")
		return
	}
	eager := r.URL.Query().Get("eager") == "true"

	cancelled, err := s.exchange.Cancel(r.Context(), symbol, orderbookv1.OrderID(id), eager)
	if err != nil {
		s.writeExchangeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CancelOrderResponse{Cancelled: cancelled})
}

// writeExchangeError maps exchange and book errors onto transport
// status codes.
func (s *Server) writeExchangeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, exchange.ErrSymbolNotFound):
		s.writeError(w, http.StatusNotFound, pkgerrors.ErrSymbolNotFound, err.Error())
	case errors.Is(err, orderbookv1.ErrInvalidQuantity), errors.Is(err, orderbookv1.ErrInvalidPrice):
		s.writeError(w, http.StatusBadRequest, pkgerrors.ErrOrderRejected, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), err)
		s.writeError(w, http.StatusInternalServerError, pkgerrors.GeneralInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code pkgerrors.ErrorCode, message string) {
	s.writeJSON(w, status, errorResponse{Error: message, Code: string(code)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(err)
	}
}
