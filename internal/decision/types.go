// Package decision is the boundary to the external prediction service. It
// owns the wire formats, the tolerant parsing of responses, and the
// fail-safe rule that anything unusable becomes a Hold. The rest of the
// core never sees raw service output.
package decision

import (
	"strings"
	"time"

	"obot/internal/types"
)

// Action is the directional signal for one bar.
type Action string

const (
	Hold  Action = "HOLD"
	Buy   Action = "BUY"
	Sell  Action = "SELL"
	Close Action = "CLOSE"
)

// ParseAction maps a wire token onto an Action. Unknown or empty tokens
// coerce to Hold: a malformed signal must never open or close a position.
func ParseAction(raw string) Action {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY":
		return Buy
	case "SELL":
		return Sell
	case "CLOSE":
		return Close
	default:
		return Hold
	}
}

// Decision is the sanitized per-bar output of the prediction service. It is
// constructed fresh each bar and discarded after the controller consumes it.
type Decision struct {
	Action             Action
	ATR                float64 // 0 = unavailable
	NewsRiskMultiplier float64 // always in (0,1] after sanitation
	TightenStopLoss    bool
	StopLossATRMult    float64 // 0 = use the configured default multiplier
	Confidence         float64 // diagnostic only
	Reason             string  // service-side tag: MODEL, NEWS_FILTER, LOW_ATR, ...
	ReceivedAt         time.Time
}

// SafeHold is the substitute decision for any transport or parse failure.
func SafeHold(reason string) Decision {
	return Decision{
		Action:             Hold,
		NewsRiskMultiplier: 1,
		Reason:             reason,
		ReceivedAt:         time.Now(),
	}
}

// PositionInfo mirrors the service's compact position encoding:
// type 0 = flat, 1 = long, 2 = short.
type PositionInfo struct {
	Type  int     `json:"type"`
	Price float64 `json:"price"`
}

func PositionInfoFor(pos *types.PositionSnapshot) PositionInfo {
	if pos == nil {
		return PositionInfo{}
	}
	switch pos.Side {
	case types.SideLong:
		return PositionInfo{Type: 1, Price: pos.EntryPrice}
	case types.SideShort:
		return PositionInfo{Type: 2, Price: pos.EntryPrice}
	default:
		return PositionInfo{}
	}
}

// Request is the per-bar payload sent to the service.
type Request struct {
	Symbol    string         `json:"symbol"`
	Timeframe string         `json:"timeframe"`
	Bars      []types.Candle `json:"m5_data"`
	USDBars   []types.Candle `json:"usd_m5,omitempty"`
	Position  PositionInfo   `json:"position"`
	Balance   float64        `json:"balance"`
	Equity    float64        `json:"equity"`
}
