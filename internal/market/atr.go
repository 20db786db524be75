// Package market holds indicator helpers computed from candle series.
package market

import (
	"github.com/markcheno/go-talib"

	"obot/internal/types"
)

const atrPeriod = 14

// ATR returns the latest 14-period average true range of the series, or 0
// when the series is too short. It is the local fallback when the decision
// service does not report an ATR of its own.
func ATR(candles []types.Candle) float64 {
	if len(candles) <= atrPeriod {
		return 0
	}
	high := make([]float64, len(candles))
	low := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		high[i] = c.High
		low[i] = c.Low
		closes[i] = c.Close
	}
	atr := talib.Atr(high, low, closes, atrPeriod)
	if len(atr) == 0 {
		return 0
	}
	last := atr[len(atr)-1]
	if last < 0 {
		return 0
	}
	return last
}
