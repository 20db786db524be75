package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLossBreaker(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	b := NewLossBreaker(3, 4*time.Hour)
	b.nowFn = func() time.Time { return now }

	t.Run("open below threshold", func(t *testing.T) {
		b.RecordResult(-50)
		b.RecordResult(-50)
		assert.True(t, b.Allow())
		assert.False(t, b.Tripped())
	})

	t.Run("trips on third loss", func(t *testing.T) {
		b.RecordResult(-50)
		assert.False(t, b.Allow())
		assert.True(t, b.Tripped())
	})

	t.Run("still blocked inside penalty window", func(t *testing.T) {
		now = now.Add(3 * time.Hour)
		assert.False(t, b.Allow())
	})

	t.Run("first allowed attempt resets the streak", func(t *testing.T) {
		now = now.Add(2 * time.Hour)
		assert.True(t, b.Allow())
		assert.Equal(t, 0, b.State().ConsecutiveLosses)
		assert.True(t, b.Allow())
	})
}

func TestLossBreakerWinClears(t *testing.T) {
	b := NewLossBreaker(3, 4*time.Hour)
	b.RecordResult(-10)
	b.RecordResult(-10)
	b.RecordResult(25)
	assert.Equal(t, 0, b.State().ConsecutiveLosses)

	// The streak restarts from scratch after a win.
	b.RecordResult(-10)
	assert.True(t, b.Allow())
}

func TestLossBreakerRestore(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	b := NewLossBreaker(3, 4*time.Hour)
	b.nowFn = func() time.Time { return now }

	b.Restore(BreakerState{ConsecutiveLosses: 3, LastLossAtUnix: now.Add(-1 * time.Hour).Unix()})
	assert.False(t, b.Allow())

	b.Restore(BreakerState{ConsecutiveLosses: -1})
	assert.False(t, b.Allow(), "negative state must be ignored")
}
