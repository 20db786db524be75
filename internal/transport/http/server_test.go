package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubController struct {
	started int
	stopped int
	resets  int
}

func (s *stubController) Status() any {
	return map[string]string{"run_state": "RUNNING"}
}

func (s *stubController) StartTrading() { s.started++ }
func (s *stubController) StopTrading()  { s.stopped++ }
func (s *stubController) ResetSafety()  { s.resets++ }

func newTestServer(t *testing.T) (*Server, *stubController) {
	t.Helper()
	stub := &stubController{}
	srv, err := NewServer(":0", stub)
	require.NoError(t, err)
	return srv, stub
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RUNNING", body["run_state"])
}

func TestCommandEndpoint(t *testing.T) {
	srv, stub := newTestServer(t)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}

	t.Run("start", func(t *testing.T) {
		rec := post(`{"command": "START"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, stub.started)
	})

	t.Run("stop is case insensitive", func(t *testing.T) {
		rec := post(`{"command": "stop"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, stub.stopped)
	})

	t.Run("reset safety", func(t *testing.T) {
		rec := post(`{"command": "RESET_SAFETY"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, stub.resets)
	})

	t.Run("unknown command", func(t *testing.T) {
		rec := post(`{"command": "SELL_EVERYTHING"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := post(`{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNewServerRequiresController(t *testing.T) {
	_, err := NewServer(":0", nil)
	assert.Error(t, err)
}
