package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafetyDailyLossHalt(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	m := NewSafetyMonitor(5, 10)
	m.nowFn = func() time.Time { return now }

	m.RecordEquity(10000)
	m.RecordTrade(-300)
	assert.True(t, m.CanTrade())

	m.RecordTrade(-250) // -5.5% on the day
	assert.False(t, m.CanTrade())
	assert.Equal(t, HaltDailyLoss, m.HaltedBy())
}

func TestSafetyDailyBucketRollsOver(t *testing.T) {
	now := time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC)
	m := NewSafetyMonitor(5, 0)
	m.nowFn = func() time.Time { return now }

	m.RecordEquity(10000)
	m.RecordTrade(-400)
	assert.True(t, m.CanTrade())

	// Next UTC day: yesterday's loss no longer counts.
	now = now.Add(2 * time.Hour)
	m.RecordTrade(-400)
	assert.True(t, m.CanTrade())

	m.RecordTrade(-200)
	assert.False(t, m.CanTrade())
}

func TestSafetyDrawdownHalt(t *testing.T) {
	m := NewSafetyMonitor(0, 10)
	m.RecordEquity(10000)
	m.RecordEquity(11000) // new peak
	m.RecordEquity(10000) // -9.1% from peak
	assert.True(t, m.CanTrade())

	m.RecordEquity(9800) // -10.9% from peak
	assert.False(t, m.CanTrade())
	assert.Equal(t, HaltDrawdown, m.HaltedBy())
}

func TestSafetyReset(t *testing.T) {
	m := NewSafetyMonitor(0, 10)
	m.RecordEquity(10000)
	m.RecordEquity(8000)
	assert.False(t, m.CanTrade())

	m.Reset()
	assert.True(t, m.CanTrade())
	assert.Equal(t, HaltNone, m.HaltedBy())

	// Peak is retained: another slide halts again.
	m.RecordEquity(7000)
	assert.False(t, m.CanTrade())
}

func TestSafetyRestore(t *testing.T) {
	m := NewSafetyMonitor(5, 10)
	m.Restore(SafetyState{InitialBalance: 10000, PeakEquity: 10500, Halted: true, Reason: HaltDailyLoss})
	assert.False(t, m.CanTrade())
	assert.Equal(t, HaltDailyLoss, m.HaltedBy())
}
