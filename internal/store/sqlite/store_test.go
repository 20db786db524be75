package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obot/internal/store/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTradeLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	open := &model.TradeModel{
		Ticket:       101,
		Symbol:       "XAUUSD",
		Side:         "long",
		Lots:         0.1,
		EntryPrice:   2000.5,
		StopLoss:     1990,
		Status:       model.TradeStatusOpen,
		OpenedAtUnix: 1700000000,
	}
	require.NoError(t, s.SaveTrade(ctx, open))

	found, err := s.FindOpenTrade(ctx, "XAUUSD")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(101), found.Ticket)

	// Closing is an upsert on the same ticket.
	closed := *found
	closed.Status = model.TradeStatusClosed
	closed.ClosePrice = 2010
	closed.Profit = 95
	closed.CloseReason = "trailing_stop"
	closed.ClosedAtUnix = 1700003600
	require.NoError(t, s.SaveTrade(ctx, &closed))

	found, err = s.FindOpenTrade(ctx, "XAUUSD")
	require.NoError(t, err)
	assert.Nil(t, found)

	recent, err := s.Trades().ListRecent(ctx, "XAUUSD", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "trailing_stop", recent[0].CloseReason)
	assert.InDelta(t, 95, recent[0].Profit, 1e-9)
}

func TestDecisionLog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i, action := range []string{"HOLD", "BUY", "HOLD"} {
		require.NoError(t, s.InsertDecision(ctx, &model.DecisionLogModel{
			Symbol:      "XAUUSD",
			BarOpenUnix: int64(1700000000 + i*300),
			Action:      action,
			Outcome:     "hold",
			PayloadJSON: []byte(`{"action":"` + action + `"}`),
		}))
	}

	entries, err := s.Decisions().ListRecent(ctx, "XAUUSD", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest bar first.
	assert.Equal(t, int64(1700000600), entries[0].BarOpenUnix)
}

func TestRiskStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	loaded, err := s.LoadRiskState(ctx, "XAUUSD")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, s.SaveRiskState(ctx, "XAUUSD", []byte(`{"cooldown":{"bars_remaining":3}}`)))
	require.NoError(t, s.SaveRiskState(ctx, "XAUUSD", []byte(`{"cooldown":{"bars_remaining":2}}`)))

	loaded, err = s.LoadRiskState(ctx, "XAUUSD")
	require.NoError(t, err)
	assert.JSONEq(t, `{"cooldown":{"bars_remaining":2}}`, string(loaded))
}
