// Package exit tracks the open position's unrealized PnL and decides when
// profit protection must close it: a break-even floor once a small gain has
// been seen, and a trailing floor that follows the peak gain down by a fixed
// distance. Both floors are one-way latches while the position stays open.
package exit

import "fmt"

// CloseReason tags which floor fired, for logs and the trade journal only;
// either reason produces the same close command.
type CloseReason string

const (
	CloseNone         CloseReason = ""
	CloseTrailingStop CloseReason = "trailing_stop"
	CloseBreakeven    CloseReason = "breakeven_stop"
)

// Config holds the three percent thresholds, all relative to the account
// balance captured at entry.
type Config struct {
	BreakevenTriggerPct   float64
	TrailingActivationPct float64
	TrailingDistancePct   float64
}

// State is the per-position tracker state. HighestPnlPct and
// TrailingStopPct are monotonically non-decreasing while the position is
// open; the booleans latch false→true and reset only with the position.
type State struct {
	EntryBalance    float64 `json:"entry_balance"`
	HighestPnlPct   float64 `json:"highest_pnl_pct"`
	BreakevenActive bool    `json:"breakeven_active"`
	TrailingActive  bool    `json:"trailing_active"`
	TrailingStopPct float64 `json:"trailing_stop_pct"`
}

// Tracker evaluates one open position per bar. It is not safe for
// concurrent use; the lifecycle controller owns it on a single goroutine.
type Tracker struct {
	cfg   Config
	state State
	open  bool
}

func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Open arms the tracker for a freshly opened position. entryBalance is the
// PnL-percent denominator for the whole life of the position.
func (t *Tracker) Open(entryBalance float64) error {
	if entryBalance <= 0 {
		return fmt.Errorf("exit tracker: entry balance must be positive, got %.2f", entryBalance)
	}
	t.state = State{EntryBalance: entryBalance}
	t.open = true
	return nil
}

// Reset clears all per-position state. Must be called on every close before
// the next evaluation.
func (t *Tracker) Reset() {
	t.state = State{}
	t.open = false
}

func (t *Tracker) Tracking() bool { return t.open }

func (t *Tracker) State() State { return t.state }

// Restore re-arms the tracker from a persisted state, used when the process
// restarts with a position still open.
func (t *Tracker) Restore(state State) {
	if state.EntryBalance <= 0 {
		return
	}
	t.state = state
	t.open = true
}

// Evaluate folds the current equity into the tracker and reports whether
// the position must close this bar. Trailing is checked before break-even;
// when both floors are breached they collapse into the same close anyway,
// the order only decides the logged reason.
func (t *Tracker) Evaluate(equity float64) (bool, CloseReason) {
	if !t.open || t.state.EntryBalance <= 0 {
		return false, CloseNone
	}
	pnlPct := (equity - t.state.EntryBalance) / t.state.EntryBalance * 100

	if pnlPct > t.state.HighestPnlPct {
		t.state.HighestPnlPct = pnlPct
	}

	if !t.state.BreakevenActive && t.state.HighestPnlPct >= t.cfg.BreakevenTriggerPct {
		t.state.BreakevenActive = true
	}

	if !t.state.TrailingActive && t.state.HighestPnlPct >= t.cfg.TrailingActivationPct {
		t.state.TrailingActive = true
		t.state.TrailingStopPct = t.state.HighestPnlPct - t.cfg.TrailingDistancePct
	}

	if t.state.TrailingActive {
		if floor := t.state.HighestPnlPct - t.cfg.TrailingDistancePct; floor > t.state.TrailingStopPct {
			t.state.TrailingStopPct = floor
		}
		if pnlPct <= t.state.TrailingStopPct {
			return true, CloseTrailingStop
		}
	}

	if t.state.BreakevenActive && pnlPct <= 0 {
		return true, CloseBreakeven
	}

	return false, CloseNone
}
