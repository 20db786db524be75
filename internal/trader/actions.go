package trader

import (
	"context"
	"errors"

	"obot/internal/config"
	"obot/internal/decision"
	"obot/internal/gateway/exchange"
	"obot/internal/logger"
	"obot/internal/risk"
	"obot/internal/store/model"
	"obot/internal/types"
)

// handleEntry drives the BUY/SELL paths: no-op when already positioned the
// same way, close-then-open on an opposing signal, guarded open when flat.
func (c *Controller) handleEntry(ctx context.Context, cfg config.Config, snap *exchange.Snapshot, side types.Side, d decision.Decision, atr float64, hour int) string {
	if pos := snap.Position; pos != nil {
		if pos.Side == side {
			return "noop"
		}
		profit, ok := c.closePosition(ctx, cfg, snap, "flip")
		if !ok {
			return "close_failed"
		}
		snap.Position = nil
		snap.Account.Balance += profit
		// The flip entry skipped the flat-path gates; apply them here.
		if cfg.Risk.MaxSpreadPoints > 0 && snap.SpreadPoints > cfg.Risk.MaxSpreadPoints {
			return "spread_too_wide"
		}
	}

	// The close half of a flip arms the cooldown, which gates the open
	// half like any other entry: the flip degrades to a plain close.
	if c.cooldown.Remaining() > 0 {
		return "blocked_cooldown"
	}
	if !c.safety.CanTrade() {
		logger.Warnf("entry blocked by safety halt (%s)", c.safety.HaltedBy())
		return "blocked_safety"
	}
	if !c.breaker.Allow() {
		return "blocked_breaker"
	}

	lots, outcome := c.sizeEntry(cfg, snap, d, atr, hour)
	if lots <= 0 {
		return outcome
	}

	entryRef := snap.Ask
	if side == types.SideShort {
		entryRef = snap.Bid
	}
	stopLoss, ok := risk.EmergencyStopLoss(side, entryRef, atr, cfg.Risk.EmergencySLMult)
	if !ok {
		logger.Warnf("no emergency stop available (atr=%.5f), opening without SL", atr)
		stopLoss = 0
	}

	req := exchange.OpenRequest{
		Symbol:     cfg.Symbol.Name,
		Side:       side,
		Lots:       lots,
		StopLoss:   stopLoss,
		StrategyID: cfg.Symbol.StrategyID,
		Comment:    "obot",
	}
	res, err := c.gateway.OpenPosition(ctx, req)
	if err != nil {
		logger.Errorf("open %s %s failed: %v", cfg.Symbol.Name, side, err)
		return "open_failed"
	}

	if err := c.exits.Open(snap.Account.Balance); err != nil {
		logger.Warnf("exit tracker arm failed: %v", err)
	}
	c.lastPosition = &types.PositionSnapshot{
		Symbol:      cfg.Symbol.Name,
		Side:        side,
		Lots:        lots,
		EntryPrice:  res.FilledPrice,
		StopLoss:    stopLoss,
		Ticket:      res.Ticket,
		OpenedAtUTC: c.nowFn().UTC().Unix(),
	}
	c.journalTradeOpen(ctx, cfg, res, side, lots, stopLoss)
	c.notify.PositionOpened(cfg.Symbol.Name, side.String(), lots, res.FilledPrice, stopLoss)
	logger.Infof("opened %s %s %.2f lots at %.5f SL %.5f (confidence=%.2f)",
		cfg.Symbol.Name, side, lots, res.FilledPrice, stopLoss, d.Confidence)
	return "opened"
}

// sizeEntry resolves the lot size for a new position. The second return is
// the journal outcome when sizing refused the entry.
func (c *Controller) sizeEntry(cfg config.Config, snap *exchange.Snapshot, d decision.Decision, atr float64, hour int) (float64, string) {
	if !cfg.Risk.UseDynamicLot {
		if cfg.Risk.FixedLot <= 0 {
			return 0, "risk_unavailable"
		}
		return cfg.Risk.FixedLot, ""
	}
	lots, err := risk.ComputeLotSize(risk.LotInput{
		Balance:         snap.Account.Balance,
		ATR:             atr,
		ReferencePrice:  snap.Mid(),
		RiskPercent:     cfg.Risk.RiskPercent,
		PointValue:      cfg.Symbol.PointValue,
		EmergencySLMult: cfg.Risk.EmergencySLMult,
		MinLot:          cfg.Risk.MinLot,
		MaxLot:          cfg.Risk.MaxLot,
		LotStep:         cfg.Risk.LotStep,
		FixedLot:        cfg.Risk.FixedLot,
		NewsMultiplier:  d.NewsRiskMultiplier,
		SessionHour:     hour,
	})
	if errors.Is(err, risk.ErrRiskUnavailable) {
		if !cfg.Risk.MinLotOnNoRisk {
			logger.Warnf("risk sizing unavailable, skipping entry")
			return 0, "risk_unavailable"
		}
		logger.Warnf("risk sizing unavailable, degrading to min lot %.2f", cfg.Risk.MinLot)
		return cfg.Risk.MinLot, ""
	}
	if err != nil {
		logger.Errorf("lot sizing failed: %v", err)
		return 0, "risk_unavailable"
	}
	if lots <= 0 {
		return 0, "risk_unavailable"
	}
	return lots, ""
}

// closePosition closes the live position and feeds the realized result into
// the guards. On a failed close nothing is mutated; the position stays
// tracked and the next bar retries.
func (c *Controller) closePosition(ctx context.Context, cfg config.Config, snap *exchange.Snapshot, reason string) (float64, bool) {
	res, err := c.gateway.ClosePosition(ctx, exchange.CloseRequest{
		Symbol:     cfg.Symbol.Name,
		StrategyID: cfg.Symbol.StrategyID,
	})
	if err != nil {
		logger.Errorf("close %s failed (%s): %v", cfg.Symbol.Name, reason, err)
		return 0, false
	}

	c.breaker.RecordResult(res.Profit)
	before := c.safety.CanTrade()
	c.safety.RecordTrade(res.Profit)
	if before && !c.safety.CanTrade() {
		c.notify.TradingHalted(cfg.Symbol.Name, string(c.safety.HaltedBy()))
	}
	if res.Profit < 0 && c.breaker.Tripped() {
		c.notify.TradingHalted(cfg.Symbol.Name, "consecutive_losses")
	}
	c.cooldown.Arm()
	c.exits.Reset()

	c.journalTradeClose(ctx, cfg, snap.Position, res, reason)
	c.lastPosition = nil
	c.notify.PositionClosed(cfg.Symbol.Name, reason, res.Profit, res.ClosedPrice)
	logger.Infof("closed %s at %.5f profit=%.2f (%s)", cfg.Symbol.Name, res.ClosedPrice, res.Profit, reason)
	return res.Profit, true
}

// tightenStop applies a news-driven stop tightening. The stop only ever
// moves toward the price; the primary action of the bar is untouched.
func (c *Controller) tightenStop(ctx context.Context, cfg config.Config, snap *exchange.Snapshot, d decision.Decision, atr float64) {
	pos := snap.Position
	mult := d.StopLossATRMult
	if mult <= 0 {
		mult = cfg.Risk.NewsSLMult
	}
	newSL, ok := risk.TightenStopLoss(pos.Side, snap.Mid(), pos.StopLoss, atr, mult)
	if !ok {
		return
	}
	err := c.gateway.ModifyStopLoss(ctx, exchange.ModifyStopLossRequest{
		Symbol:      cfg.Symbol.Name,
		Ticket:      pos.Ticket,
		NewStopLoss: newSL,
	})
	if err != nil {
		logger.Errorf("stop tighten failed: %v", err)
		return
	}
	pos.StopLoss = newSL
	c.notify.StopLossMoved(cfg.Symbol.Name, newSL, "news")
	logger.Infof("tightened %s stop to %.5f (mult=%.2f)", cfg.Symbol.Name, newSL, mult)
}

func (c *Controller) journalTradeOpen(ctx context.Context, cfg config.Config, res *exchange.OpenResult, side types.Side, lots, stopLoss float64) {
	if c.journal == nil {
		return
	}
	trade := &model.TradeModel{
		Ticket:       res.Ticket,
		Symbol:       cfg.Symbol.Name,
		Side:         side.String(),
		Lots:         lots,
		EntryPrice:   res.FilledPrice,
		StopLoss:     stopLoss,
		Status:       model.TradeStatusOpen,
		OpenedAtUnix: c.nowFn().UTC().Unix(),
	}
	if err := c.journal.SaveTrade(ctx, trade); err != nil {
		logger.Errorf("trade journal write failed: %v", err)
	}
}

func (c *Controller) journalTradeClose(ctx context.Context, cfg config.Config, pos *types.PositionSnapshot, res *exchange.CloseResult, reason string) {
	if c.journal == nil || pos == nil {
		return
	}
	trade := &model.TradeModel{
		Ticket:       pos.Ticket,
		Symbol:       cfg.Symbol.Name,
		Side:         pos.Side.String(),
		Lots:         pos.Lots,
		EntryPrice:   pos.EntryPrice,
		StopLoss:     pos.StopLoss,
		ClosePrice:   res.ClosedPrice,
		Profit:       res.Profit,
		CloseReason:  reason,
		Status:       model.TradeStatusClosed,
		OpenedAtUnix: pos.OpenedAtUTC,
		ClosedAtUnix: c.nowFn().UTC().Unix(),
	}
	if err := c.journal.SaveTrade(ctx, trade); err != nil {
		logger.Errorf("trade journal write failed: %v", err)
	}
}
