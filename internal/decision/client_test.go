package decision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obot/internal/types"
)

func testRequest() Request {
	return Request{
		Symbol:    "XAUUSD",
		Timeframe: "M5",
		Bars:      []types.Candle{{Time: 1700000000, Open: 2000, High: 2005, Low: 1998, Close: 2003, Volume: 120}},
		Position:  PositionInfo{Type: 1, Price: 1990},
		Balance:   10000,
		Equity:    10100,
	}
}

func TestClientQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "XAUUSD", req["symbol"])
		assert.NotEmpty(t, req["m5_data"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"action": "BUY", "atr": 4.5, "confidence": 0.9, "reason": "MODEL"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	d, err := c.Query(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, Buy, d.Action)
	assert.InDelta(t, 4.5, d.ATR, 1e-9)
}

func TestClientQueryFailsSafe(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model offline", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		d, err := c.Query(context.Background(), testRequest())
		assert.Error(t, err)
		assert.Equal(t, Hold, d.Action)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json at all`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		d, err := c.Query(context.Background(), testRequest())
		assert.Error(t, err)
		assert.Equal(t, Hold, d.Action)
		assert.Equal(t, "BAD_JSON", d.Reason)
	})

	t.Run("unreachable service", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
		d, err := c.Query(context.Background(), testRequest())
		assert.Error(t, err)
		assert.Equal(t, Hold, d.Action)
		assert.InDelta(t, 1.0, d.NewsRiskMultiplier, 1e-9)
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(2 * time.Second)
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		c := NewClient(srv.URL, 5*time.Second)
		d, err := c.Query(ctx, testRequest())
		assert.Error(t, err)
		assert.Equal(t, Hold, d.Action)
	})
}
