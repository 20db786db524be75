// Package exchange defines the contracts between the trading core and the
// host environment: the market snapshot provider and the order execution
// gateway. The core depends only on these interfaces; the REST bridge and
// the paper executor implement them.
package exchange

import (
	"context"
	"time"

	"obot/internal/types"
)

// Snapshot is one consistent view of the market and account, taken at the
// start of a bar evaluation. All fields refer to the same instant.
type Snapshot struct {
	Symbol       string                             `json:"symbol"`
	Account      types.AccountSnapshot              `json:"account"`
	Bid          float64                            `json:"bid"`
	Ask          float64                            `json:"ask"`
	SpreadPoints float64                            `json:"spread_points"`
	Series       map[types.Timeframe][]types.Candle `json:"series"`
	Position     *types.PositionSnapshot            `json:"position,omitempty"` // nil when flat
	TakenAt      time.Time                          `json:"taken_at"`
}

// Mid returns the midpoint price, the reference for sizing ratios.
func (s *Snapshot) Mid() float64 {
	if s.Bid <= 0 || s.Ask <= 0 {
		if s.Bid > 0 {
			return s.Bid
		}
		return s.Ask
	}
	return (s.Bid + s.Ask) / 2
}

type OpenRequest struct {
	Symbol     string     `json:"symbol"`
	Side       types.Side `json:"side"`
	Lots       float64    `json:"lots"`
	StopLoss   float64    `json:"stop_loss"`
	TakeProfit float64    `json:"take_profit"`
	StrategyID int64      `json:"strategy_id"`
	Comment    string     `json:"comment,omitempty"`
}

type OpenResult struct {
	Ticket      int64   `json:"ticket"`
	FilledPrice float64 `json:"filled_price"`
}

type CloseRequest struct {
	Symbol     string `json:"symbol"`
	StrategyID int64  `json:"strategy_id"`
}

// CloseResult reports the realized outcome of the closed deal; Profit feeds
// the loss breaker and the safety monitor.
type CloseResult struct {
	Profit      float64 `json:"profit"`
	ClosedPrice float64 `json:"closed_price"`
}

type ModifyStopLossRequest struct {
	Symbol      string  `json:"symbol"`
	Ticket      int64   `json:"ticket"`
	NewStopLoss float64 `json:"new_stop_loss"`
}

// MarketData is the snapshot provider side of the host.
type MarketData interface {
	GetSnapshot(ctx context.Context, symbol string) (*Snapshot, error)
}

// Executor is the order execution side of the host. Every call is fallible;
// the caller logs failures and degrades per the error-handling policy
// instead of propagating them as fatal.
type Executor interface {
	OpenPosition(ctx context.Context, req OpenRequest) (*OpenResult, error)
	ClosePosition(ctx context.Context, req CloseRequest) (*CloseResult, error)
	ModifyStopLoss(ctx context.Context, req ModifyStopLossRequest) error
}

// Gateway is the full host surface the controller is wired against.
type Gateway interface {
	Name() string
	MarketData
	Executor
}
