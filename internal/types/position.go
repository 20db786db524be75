package types

import "time"

// Side is the direction of the single managed position.
type Side int

const (
	SideNone Side = iota
	SideLong
	SideShort
)

func (s Side) String() string {
	switch s {
	case SideLong:
		return "long"
	case SideShort:
		return "short"
	default:
		return "none"
	}
}

// PositionSnapshot is the gateway's view of the open position. The core
// never mutates it directly; stop-loss updates go through the gateway.
type PositionSnapshot struct {
	Symbol      string  `json:"symbol"`
	Side        Side    `json:"side"`
	Lots        float64 `json:"lots"`
	EntryPrice  float64 `json:"entry_price"`
	StopLoss    float64 `json:"stop_loss"`
	TakeProfit  float64 `json:"take_profit"`
	Ticket      int64   `json:"ticket"`
	OpenedAtUTC int64   `json:"opened_at"`
}

// AccountSnapshot carries the balance/equity pair used for sizing and
// trailing PnL percent.
type AccountSnapshot struct {
	Balance    float64   `json:"balance"`
	Equity     float64   `json:"equity"`
	MarginFree float64   `json:"margin_free"`
	Currency   string    `json:"currency"`
	UpdatedAt  time.Time `json:"updated_at"`
}
