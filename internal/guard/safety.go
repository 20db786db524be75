package guard

import (
	"time"

	"obot/internal/logger"
)

// HaltReason tags why the safety monitor disabled trading.
type HaltReason string

const (
	HaltNone      HaltReason = ""
	HaltDailyLoss HaltReason = "daily_loss_limit"
	HaltDrawdown  HaltReason = "max_drawdown"
)

// SafetyState is the persisted view of the monitor.
type SafetyState struct {
	InitialBalance float64    `json:"initial_balance"`
	PeakEquity     float64    `json:"peak_equity"`
	DailyPnl       float64    `json:"daily_pnl"`
	DayUnix        int64      `json:"day"`
	Halted         bool       `json:"halted"`
	Reason         HaltReason `json:"reason,omitempty"`
}

// SafetyMonitor is the account-level kill switch: it halts all new entries
// when the day's realized loss or the equity drawdown from peak exceeds its
// limits. A halt is sticky until an operator resets it.
type SafetyMonitor struct {
	maxDailyLossPct float64
	maxDrawdownPct  float64
	state           SafetyState
	nowFn           func() time.Time
}

func NewSafetyMonitor(maxDailyLossPct, maxDrawdownPct float64) *SafetyMonitor {
	return &SafetyMonitor{
		maxDailyLossPct: maxDailyLossPct,
		maxDrawdownPct:  maxDrawdownPct,
		nowFn:           time.Now,
	}
}

// RecordEquity folds one equity observation in. The first observation
// seeds both the initial balance and the peak.
func (m *SafetyMonitor) RecordEquity(equity float64) {
	if equity <= 0 {
		return
	}
	if m.state.InitialBalance <= 0 {
		m.state.InitialBalance = equity
	}
	if equity > m.state.PeakEquity {
		m.state.PeakEquity = equity
	}
	if m.state.Halted || m.maxDrawdownPct <= 0 || m.state.PeakEquity <= 0 {
		return
	}
	drawdownPct := (m.state.PeakEquity - equity) / m.state.PeakEquity * 100
	if drawdownPct > m.maxDrawdownPct {
		m.halt(HaltDrawdown)
		logger.Errorf("safety halt: drawdown %.2f%% exceeded limit %.2f%%", drawdownPct, m.maxDrawdownPct)
	}
}

// RecordTrade feeds one realized trade result into the daily-loss check.
// The daily bucket rolls over at UTC midnight.
func (m *SafetyMonitor) RecordTrade(profit float64) {
	day := m.nowFn().UTC().Truncate(24 * time.Hour)
	if day.Unix() != m.state.DayUnix {
		m.state.DayUnix = day.Unix()
		m.state.DailyPnl = 0
	}
	m.state.DailyPnl += profit
	if m.state.Halted || m.maxDailyLossPct <= 0 || m.state.InitialBalance <= 0 {
		return
	}
	lossPct := m.state.DailyPnl / m.state.InitialBalance * 100
	if lossPct < -m.maxDailyLossPct {
		m.halt(HaltDailyLoss)
		logger.Errorf("safety halt: daily loss %.2f%% exceeded limit %.2f%%", -lossPct, m.maxDailyLossPct)
	}
}

func (m *SafetyMonitor) halt(reason HaltReason) {
	m.state.Halted = true
	m.state.Reason = reason
}

func (m *SafetyMonitor) CanTrade() bool { return !m.state.Halted }

func (m *SafetyMonitor) HaltedBy() HaltReason { return m.state.Reason }

// Reset clears a halt; limits and the daily bucket keep counting.
func (m *SafetyMonitor) Reset() {
	if m.state.Halted {
		logger.Warnf("safety monitor reset by operator (was halted: %s)", m.state.Reason)
	}
	m.state.Halted = false
	m.state.Reason = HaltNone
}

// SetClock replaces the time source so the daily bucket rolls on the same
// clock as the owning controller.
func (m *SafetyMonitor) SetClock(fn func() time.Time) {
	if fn != nil {
		m.nowFn = fn
	}
}

func (m *SafetyMonitor) State() SafetyState { return m.state }

func (m *SafetyMonitor) Restore(state SafetyState) { m.state = state }
