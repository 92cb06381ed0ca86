package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/hftx/internal/usecase/exchange"
	"github.com/muhammadchandra19/hftx/pkg/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *exchange.Exchange) {
	t.Helper()
	log, err := logger.NewLogger(logger.WithOutputPaths([]string{"stderr"}))
	require.NoError(t, err)

	ex := exchange.New([]string{"AAPL"}, log)
	srv := New(ex, log, decimal.RequireFromString("0.01"), 10)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, ex
}

func postOrder(t *testing.T, ts *httptest.Server, symbol, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(
		fmt.Sprintf("%s/symbols/%s/orders", ts.URL, symbol),
		"application/json",
		bytes.NewBufferString(body),
	)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_Health(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Symbols(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/symbols")
	require.NoError(t, err)
	defer resp.Body.Close()

	body := decodeJSON[SymbolsResponse](t, resp)
	assert.Equal(t, []string{"AAPL"}, body.Symbols)
}

func TestServer_SubmitOrder(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("resting order accepted", func(t *testing.T) {
		resp := postOrder(t, ts, "AAPL", `{"side":"ask","price":"100.00","quantity":10}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSON[SubmitOrderResponse](t, resp)
		assert.Equal(t, "accepted", body.Status)
		assert.NotZero(t, body.OrderID)
		assert.Empty(t, body.Trades)
	})

	t.Run("crossing order filled", func(t *testing.T) {
		resp := postOrder(t, ts, "AAPL", `{"side":"bid","price":"100.00","quantity":4}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSON[SubmitOrderResponse](t, resp)
		assert.Equal(t, "filled", body.Status)
		require.Len(t, body.Trades, 1)
		assert.Equal(t, int64(10000), body.Trades[0].Price)
		assert.Equal(t, int64(4), body.Trades[0].Quantity)
	})

	t.Run("partial fill", func(t *testing.T) {
		resp := postOrder(t, ts, "AAPL", `{"side":"bid","price":"100.00","quantity":50}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSON[SubmitOrderResponse](t, resp)
		assert.Equal(t, "partial", body.Status)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		resp := postOrder(t, ts, "TSLA", `{"side":"bid","price":"100.00","quantity":1}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid side", func(t *testing.T) {
		resp := postOrder(t, ts, "AAPL", `{"side":"short","price":"100.00","quantity":1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("off-tick price", func(t *testing.T) {
		resp := postOrder(t, ts, "AAPL", `{"side":"bid","price":"100.005","quantity":1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("zero quantity", func(t *testing.T) {
		resp := postOrder(t, ts, "AAPL", `{"side":"bid","price":"100.00","quantity":0}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_Depth(t *testing.T) {
	ts, _ := newTestServer(t)

	postOrder(t, ts, "AAPL", `{"side":"bid","price":"99.00","quantity":5}`)
	postOrder(t, ts, "AAPL", `{"side":"ask","price":"101.00","quantity":7}`)

	resp, err := http.Get(ts.URL + "/symbols/AAPL/depth?levels=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	depth := decodeJSON[orderbookv1.DepthSnapshot](t, resp)
	require.Len(t, depth.Bids, 1)
	require.Len(t, depth.Asks, 1)
	assert.Equal(t, int64(9900), depth.Bids[0].Price)
	assert.Equal(t, int64(10100), depth.Asks[0].Price)

	t.Run("bad levels parameter", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/symbols/AAPL/depth?levels=nope")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_CancelOrder(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postOrder(t, ts, "AAPL", `{"side":"bid","price":"99.00","quantity":5}`)
	body := decodeJSON[SubmitOrderResponse](t, resp)

	doCancel := func(orderID orderbookv1.OrderID, query string) *http.Response {
		req, err := http.NewRequest(
			http.MethodDelete,
			fmt.Sprintf("%s/symbols/AAPL/orders/%d%s", ts.URL, orderID, query),
			nil,
		)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp = doCancel(body.OrderID, "?eager=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeJSON[CancelOrderResponse](t, resp).Cancelled)

	// second cancel is an idempotent no-op
	resp = doCancel(body.OrderID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeJSON[CancelOrderResponse](t, resp).Cancelled)
}

func TestServer_Orderbook(t *testing.T) {
	ts, _ := newTestServer(t)

	postOrder(t, ts, "AAPL", `{"side":"bid","price":"99.00","quantity":5}`)

	resp, err := http.Get(ts.URL + "/symbols/AAPL/orderbook")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state struct {
		Symbol    string `json:"symbol"`
		BestBid   *int64 `json:"bestBid"`
		BidLevels int    `json:"bidLevels"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "AAPL", state.Symbol)
	require.NotNil(t, state.BestBid)
	assert.Equal(t, int64(9900), *state.BestBid)
	assert.Equal(t, 1, state.BidLevels)
}
