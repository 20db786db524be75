package types

import "time"

// Candle is one OHLC bar as delivered by the market bridge. Time is the bar
// open in Unix seconds, matching the wire format of the prediction service.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"tick_volume"`
}

func (c Candle) OpenTime() time.Time { return time.Unix(c.Time, 0).UTC() }

// Timeframe is a bar duration label ("M5", "H1", ...).
type Timeframe string

const (
	TimeframeM5  Timeframe = "M5"
	TimeframeM15 Timeframe = "M15"
	TimeframeH1  Timeframe = "H1"
)

func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TimeframeM5:
		return 5 * time.Minute
	case TimeframeM15:
		return 15 * time.Minute
	case TimeframeH1:
		return time.Hour
	default:
		return 5 * time.Minute
	}
}
