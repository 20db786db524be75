package market

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"obot/internal/types"
)

func constantRangeSeries(n int, rng float64) []types.Candle {
	candles := make([]types.Candle, n)
	for i := range candles {
		candles[i] = types.Candle{
			Time:  int64(1700000000 + i*300),
			Open:  2000,
			High:  2000 + rng,
			Low:   2000,
			Close: 2000,
		}
	}
	return candles
}

func TestATR(t *testing.T) {
	t.Run("constant true range converges to the range", func(t *testing.T) {
		atr := ATR(constantRangeSeries(200, 5))
		assert.InDelta(t, 5, atr, 0.01)
	})

	t.Run("too short series yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ATR(constantRangeSeries(14, 5)))
		assert.Equal(t, 0.0, ATR(nil))
	})
}
