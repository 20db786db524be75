package trader

import (
	"context"
	"encoding/json"
	"time"

	"obot/internal/decision"
	"obot/internal/guard"
	"obot/internal/logger"
	"obot/internal/store/model"
	"obot/internal/strategy/exit"
	"obot/internal/types"
)

// persistedState is the restart blob saved after every bar evaluation.
type persistedState struct {
	RunState    RunState            `json:"run_state"`
	LastBarOpen int64               `json:"last_bar_open"`
	Breaker     guard.BreakerState  `json:"breaker"`
	Cooldown    guard.CooldownState `json:"cooldown"`
	Safety      guard.SafetyState   `json:"safety"`
	Exit        exit.State          `json:"exit"`
	ExitOpen    bool                `json:"exit_open"`
}

// record journals the bar outcome and persists the risk state. Persistence
// failures are logged, never fatal.
func (c *Controller) record(ctx context.Context, barOpen time.Time, action decision.Action, outcome, reason string) {
	c.lastAction = action
	c.lastOutcome = outcome
	c.lastReason = reason

	if c.journal != nil {
		payload, _ := json.Marshal(map[string]any{
			"action":  string(action),
			"outcome": outcome,
			"reason":  reason,
		})
		entry := &model.DecisionLogModel{
			Symbol:      c.cfg.Symbol.Name,
			BarOpenUnix: barOpen.Unix(),
			Action:      string(action),
			Outcome:     outcome,
			Reason:      reason,
			PayloadJSON: payload,
		}
		if err := c.journal.InsertDecision(ctx, entry); err != nil {
			logger.Errorf("decision journal write failed: %v", err)
		}
	}
	c.persistState(ctx)
}

func (c *Controller) persistState(ctx context.Context) {
	if c.journal == nil {
		return
	}
	state := persistedState{
		RunState:    c.runState,
		LastBarOpen: c.lastBarOpen,
		Breaker:     c.breaker.State(),
		Cooldown:    c.cooldown.State(),
		Safety:      c.safety.State(),
		Exit:        c.exits.State(),
		ExitOpen:    c.exits.Tracking(),
	}
	raw, err := json.Marshal(state)
	if err != nil {
		logger.Errorf("risk state marshal failed: %v", err)
		return
	}
	if err := c.journal.SaveRiskState(ctx, c.cfg.Symbol.Name, raw); err != nil {
		logger.Errorf("risk state persist failed: %v", err)
	}
}

// Restore loads the persisted risk state so a restart resumes mid-stream:
// an armed cooldown keeps blocking, a tripped breaker keeps counting, and a
// live position keeps its profit-protection floors.
func (c *Controller) Restore(ctx context.Context) error {
	if c.journal == nil {
		return nil
	}
	raw, err := c.journal.LoadRiskState(ctx, c.cfg.Symbol.Name)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if state.RunState == RunStateStopped {
		c.runState = RunStateStopped
	}
	c.lastBarOpen = state.LastBarOpen
	c.breaker.Restore(state.Breaker)
	c.cooldown.Restore(state.Cooldown)
	c.safety.Restore(state.Safety)
	if state.ExitOpen {
		c.exits.Restore(state.Exit)
	}
	logger.Infof("risk state restored for %s (run_state=%s cooldown=%d losses=%d)",
		c.cfg.Symbol.Name, c.runState, c.cooldown.Remaining(), state.Breaker.ConsecutiveLosses)
	return nil
}

// StatusReport is the JSON shape served by GET /status.
type StatusReport struct {
	Symbol      string                  `json:"symbol"`
	RunState    RunState                `json:"run_state"`
	Position    *types.PositionSnapshot `json:"position,omitempty"`
	Equity      float64                 `json:"equity"`
	LastAction  string                  `json:"last_action"`
	LastOutcome string                  `json:"last_outcome"`
	LastReason  string                  `json:"last_reason,omitempty"`
	LastEvalAt  time.Time               `json:"last_eval_at"`
	Breaker     guard.BreakerState      `json:"breaker"`
	Cooldown    int                     `json:"cooldown_bars_remaining"`
	Safety      guard.SafetyState       `json:"safety"`
	Exit        exit.State              `json:"exit,omitempty"`
}

func (c *Controller) Status() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return StatusReport{
		Symbol:      c.cfg.Symbol.Name,
		RunState:    c.runState,
		Position:    c.lastPosition,
		Equity:      c.lastEquity,
		LastAction:  string(c.lastAction),
		LastOutcome: c.lastOutcome,
		LastReason:  c.lastReason,
		LastEvalAt:  c.lastEvalAt,
		Breaker:     c.breaker.State(),
		Cooldown:    c.cooldown.Remaining(),
		Safety:      c.safety.State(),
		Exit:        c.exits.State(),
	}
}

// StartTrading resumes bar evaluation after a STOP.
func (c *Controller) StartTrading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runState == RunStateRunning {
		return
	}
	c.runState = RunStateRunning
	logger.Infof("trading started by operator")
	c.persistState(context.Background())
}

// StopTrading halts evaluation; the scheduler keeps ticking but every bar
// resolves to a recorded Hold until START.
func (c *Controller) StopTrading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runState == RunStateStopped {
		return
	}
	c.runState = RunStateStopped
	logger.Warnf("trading stopped by operator")
	c.persistState(context.Background())
}

// ResetSafety clears a safety halt after operator review.
func (c *Controller) ResetSafety() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.safety.Reset()
	c.persistState(context.Background())
}
