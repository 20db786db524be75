// Package trader is the position lifecycle controller: it evaluates each
// closed bar in a fixed priority order (schedule, profit protection,
// cooldown, entry guards, decision dispatch) and owns the single open
// position per instrument. All state mutations happen on one goroutine,
// serialized per bar by the scheduler.
package trader

import (
	"context"
	"errors"
	"sync"
	"time"

	"obot/internal/config"
	"obot/internal/decision"
	"obot/internal/gateway/exchange"
	"obot/internal/guard"
	"obot/internal/logger"
	"obot/internal/market"
	"obot/internal/notifier"
	"obot/internal/store/model"
	"obot/internal/strategy/exit"
	"obot/internal/types"
)

type RunState string

const (
	RunStateRunning RunState = "RUNNING"
	RunStateStopped RunState = "STOPPED"
)

// Decider is the per-bar signal source.
type Decider interface {
	Query(ctx context.Context, req decision.Request) (decision.Decision, error)
}

// Journal is the persistence surface the controller writes through. A nil
// journal disables persistence, used by tests.
type Journal interface {
	SaveTrade(ctx context.Context, trade *model.TradeModel) error
	FindOpenTrade(ctx context.Context, symbol string) (*model.TradeModel, error)
	InsertDecision(ctx context.Context, entry *model.DecisionLogModel) error
	SaveRiskState(ctx context.Context, symbol string, stateJSON []byte) error
	LoadRiskState(ctx context.Context, symbol string) ([]byte, error)
}

type Options struct {
	Config    config.Config
	Overrides *config.OverridesLoader
	Gateway   exchange.Gateway
	Decider   Decider
	Journal   Journal
	Notify    *notifier.Notifier
}

type Controller struct {
	cfg       config.Config
	overrides *config.OverridesLoader

	gateway exchange.Gateway
	decider Decider
	journal Journal
	notify  *notifier.Notifier

	breaker  *guard.LossBreaker
	cooldown *guard.Cooldown
	safety   *guard.SafetyMonitor
	exits    *exit.Tracker

	nowFn func() time.Time

	mu           sync.Mutex
	runState     RunState
	lastBarOpen  int64
	lastAction   decision.Action
	lastReason   string
	lastOutcome  string
	lastEvalAt   time.Time
	lastPosition *types.PositionSnapshot
	lastEquity   float64
}

func New(opts Options) (*Controller, error) {
	if opts.Gateway == nil {
		return nil, errors.New("trader requires a gateway")
	}
	if opts.Decider == nil {
		return nil, errors.New("trader requires a decider")
	}
	cfg := opts.Config
	penalty := time.Duration(cfg.Guard.PenaltyHours * float64(time.Hour))
	c := &Controller{
		cfg:       cfg,
		overrides: opts.Overrides,
		gateway:   opts.Gateway,
		decider:   opts.Decider,
		journal:   opts.Journal,
		notify:    opts.Notify,
		breaker:   guard.NewLossBreaker(cfg.Guard.MaxConsecutiveLosses, penalty),
		cooldown:  guard.NewCooldown(cfg.Guard.CooldownBars),
		safety:    guard.NewSafetyMonitor(cfg.Guard.MaxDailyLossPct, cfg.Guard.MaxDrawdownPct),
		exits: exit.NewTracker(exit.Config{
			BreakevenTriggerPct:   cfg.Trailing.BreakevenTriggerPct,
			TrailingActivationPct: cfg.Trailing.TrailingActivationPct,
			TrailingDistancePct:   cfg.Trailing.TrailingDistancePct,
		}),
		nowFn:    time.Now,
		runState: RunStateRunning,
	}
	// The guards evaluate their windows on the controller's clock.
	clock := func() time.Time { return c.nowFn() }
	c.breaker.SetClock(clock)
	c.safety.SetClock(clock)
	return c, nil
}

func (c *Controller) effectiveConfig() config.Config {
	if c.overrides == nil {
		return c.cfg
	}
	return c.overrides.Snapshot().Apply(c.cfg)
}

// OnNewBar evaluates the bar that just closed. barOpen identifies the bar;
// duplicate deliveries of the same bar are ignored.
func (c *Controller) OnNewBar(ctx context.Context, barOpen time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if barOpen.Unix() <= c.lastBarOpen {
		logger.Debugf("bar %s already evaluated, skipping", barOpen.Format(time.RFC3339))
		return
	}
	c.lastBarOpen = barOpen.Unix()
	c.lastEvalAt = c.nowFn()

	cfg := c.effectiveConfig()
	snap, err := c.gateway.GetSnapshot(ctx, cfg.Symbol.Name)
	if err != nil {
		logger.Errorf("snapshot failed, skipping bar: %v", err)
		return
	}
	c.lastPosition = snap.Position
	c.lastEquity = snap.Account.Equity

	c.observeEquity(cfg, snap.Account.Equity)

	if c.runState == RunStateStopped {
		c.record(ctx, barOpen, decision.Hold, "stopped", "STOPPED")
		return
	}

	hour := c.nowFn().UTC().Hour()
	if !withinSchedule(hour, cfg.Schedule) {
		outcome := "off_schedule"
		if snap.Position != nil {
			if cfg.Schedule.CloseOnScheduleEnd {
				if _, ok := c.closePosition(ctx, cfg, snap, "schedule"); ok {
					outcome = "schedule_close"
				}
			} else if reason, closed := c.protectPosition(ctx, cfg, snap); closed {
				// Held overnight: no entries, but profit protection
				// keeps running.
				outcome = reason
			}
		}
		c.record(ctx, barOpen, decision.Hold, outcome, "")
		return
	}

	if snap.Position != nil {
		if reason, closed := c.protectPosition(ctx, cfg, snap); closed {
			c.record(ctx, barOpen, decision.Hold, reason, "")
			return
		}
	} else {
		if c.cooldown.Step() {
			logger.Infof("cooldown active, %d bars remaining", c.cooldown.Remaining())
			c.record(ctx, barOpen, decision.Hold, "cooldown", "")
			return
		}
		if cfg.Risk.MaxSpreadPoints > 0 && snap.SpreadPoints > cfg.Risk.MaxSpreadPoints {
			logger.Warnf("spread %.1f points exceeds limit %.1f, holding",
				snap.SpreadPoints, cfg.Risk.MaxSpreadPoints)
			c.record(ctx, barOpen, decision.Hold, "spread_too_wide", "")
			return
		}
	}

	d := c.queryDecision(ctx, cfg, snap)
	atr := d.ATR
	if atr <= 0 {
		atr = market.ATR(snap.Series[types.Timeframe(cfg.Symbol.Timeframe)])
	}

	if snap.Position != nil && d.TightenStopLoss {
		c.tightenStop(ctx, cfg, snap, d, atr)
	}

	outcome := c.dispatch(ctx, cfg, snap, d, atr, hour)
	c.record(ctx, barOpen, d.Action, outcome, d.Reason)
}

// protectPosition runs the trailing/break-even tracker against the current
// equity and closes the position when a floor is breached. On a restart with
// a live position the tracker is re-seeded with the current balance.
func (c *Controller) protectPosition(ctx context.Context, cfg config.Config, snap *exchange.Snapshot) (string, bool) {
	if !c.exits.Tracking() {
		if err := c.exits.Open(snap.Account.Balance); err != nil {
			logger.Warnf("exit tracker seed failed: %v", err)
			return "", false
		}
	}
	mustClose, reason := c.exits.Evaluate(snap.Account.Equity)
	if !mustClose {
		return "", false
	}
	if _, ok := c.closePosition(ctx, cfg, snap, string(reason)); !ok {
		return "close_failed", true
	}
	return string(reason), true
}

func (c *Controller) queryDecision(ctx context.Context, cfg config.Config, snap *exchange.Snapshot) decision.Decision {
	tf := types.Timeframe(cfg.Symbol.Timeframe)
	bars := snap.Series[tf]
	if max := cfg.Predict.BarsSent; max > 0 && len(bars) > max {
		bars = bars[len(bars)-max:]
	}
	req := decision.Request{
		Symbol:    cfg.Symbol.Name,
		Timeframe: cfg.Symbol.Timeframe,
		Bars:      bars,
		Position:  decision.PositionInfoFor(snap.Position),
		Balance:   snap.Account.Balance,
		Equity:    snap.Account.Equity,
	}
	d, err := c.decider.Query(ctx, req)
	if err != nil {
		logger.Warnf("decision query degraded to HOLD: %v", err)
	}
	return d
}

func (c *Controller) dispatch(ctx context.Context, cfg config.Config, snap *exchange.Snapshot, d decision.Decision, atr float64, hour int) string {
	switch d.Action {
	case decision.Buy:
		return c.handleEntry(ctx, cfg, snap, types.SideLong, d, atr, hour)
	case decision.Sell:
		return c.handleEntry(ctx, cfg, snap, types.SideShort, d, atr, hour)
	case decision.Close:
		if snap.Position == nil {
			return "noop"
		}
		if _, ok := c.closePosition(ctx, cfg, snap, "signal"); !ok {
			return "close_failed"
		}
		return "closed"
	default:
		return "hold"
	}
}

func (c *Controller) observeEquity(cfg config.Config, equity float64) {
	before := c.safety.CanTrade()
	c.safety.RecordEquity(equity)
	if before && !c.safety.CanTrade() {
		c.notify.TradingHalted(cfg.Symbol.Name, string(c.safety.HaltedBy()))
	}
}

func withinSchedule(hour int, s config.ScheduleConfig) bool {
	if s.StartHour == s.EndHour {
		return true
	}
	if s.StartHour < s.EndHour {
		return hour >= s.StartHour && hour < s.EndHour
	}
	// Overnight window, e.g. 22-6.
	return hour >= s.StartHour || hour < s.EndHour
}
