package model

import (
	"gorm.io/datatypes"
)

type TradeStatus int

const (
	TradeStatusUnknown TradeStatus = 0
	TradeStatusOpen    TradeStatus = 1
	TradeStatusClosed  TradeStatus = 2
)

// TradeModel is one row per position lifecycle: inserted on open, finalized
// on close.
type TradeModel struct {
	ID            int64       `gorm:"column:id;primaryKey"`
	Ticket        int64       `gorm:"column:ticket;uniqueIndex"`
	Symbol        string      `gorm:"column:symbol;index"`
	Side          string      `gorm:"column:side"`
	Lots          float64     `gorm:"column:lots"`
	EntryPrice    float64     `gorm:"column:entry_price"`
	StopLoss      float64     `gorm:"column:stop_loss"`
	ClosePrice    float64     `gorm:"column:close_price"`
	Profit        float64     `gorm:"column:profit"`
	CloseReason   string      `gorm:"column:close_reason"`
	Status        TradeStatus `gorm:"column:status;index"`
	OpenedAtUnix  int64       `gorm:"column:opened_at"`
	ClosedAtUnix  int64       `gorm:"column:closed_at"`
	CreatedAtUnix int64       `gorm:"column:created_at"`
	UpdatedAtUnix int64       `gorm:"column:updated_at"`
}

func (TradeModel) TableName() string { return "trades" }

// DecisionLogModel records one service decision per bar, with the raw
// sanitized payload kept for later inspection.
type DecisionLogModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	Symbol        string         `gorm:"column:symbol;index"`
	BarOpenUnix   int64          `gorm:"column:bar_open;index"`
	Action        string         `gorm:"column:action"`
	Outcome       string         `gorm:"column:outcome"`
	Reason        string         `gorm:"column:reason"`
	PayloadJSON   datatypes.JSON `gorm:"column:payload_json;type:TEXT"`
	CreatedAtUnix int64          `gorm:"column:created_at"`
}

func (DecisionLogModel) TableName() string { return "decision_logs" }

// RiskStateModel is the single persisted row per symbol holding the risk
// machinery state (breaker, cooldown, safety, exit tracker) as JSON, so a
// restart resumes where the process left off.
type RiskStateModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	Symbol        string         `gorm:"column:symbol;uniqueIndex"`
	StateJSON     datatypes.JSON `gorm:"column:state_json;type:TEXT"`
	UpdatedAtUnix int64          `gorm:"column:updated_at"`
}

func (RiskStateModel) TableName() string { return "risk_states" }
