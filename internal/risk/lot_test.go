package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseInput() LotInput {
	return LotInput{
		Balance:         10000,
		ATR:             5,
		ReferencePrice:  500, // ratio 0.01, inside the neutral band
		RiskPercent:     1,
		PointValue:      100,
		EmergencySLMult: 2,
		MinLot:          0.01,
		MaxLot:          1.0,
		LotStep:         0.01,
		NewsMultiplier:  1,
		SessionHour:     12,
	}
}

func TestComputeLotSize(t *testing.T) {
	t.Run("risk based sizing", func(t *testing.T) {
		lot, err := ComputeLotSize(baseInput())
		assert.NoError(t, err)
		// 1% of 10000 = 100 risked over a 2*ATR*pointValue stop.
		assert.InDelta(t, 0.10, lot, 1e-9)
	})

	t.Run("high volatility scales down", func(t *testing.T) {
		in := baseInput()
		in.ReferencePrice = 200 // ratio 0.025
		lot, err := ComputeLotSize(in)
		assert.NoError(t, err)
		assert.InDelta(t, 0.07, lot, 1e-9)
	})

	t.Run("low volatility scales up", func(t *testing.T) {
		in := baseInput()
		in.ReferencePrice = 1000 // ratio 0.005
		lot, err := ComputeLotSize(in)
		assert.NoError(t, err)
		assert.InDelta(t, 0.13, lot, 1e-9)
	})

	t.Run("quiet session scales down", func(t *testing.T) {
		in := baseInput()
		in.SessionHour = 3
		lot, err := ComputeLotSize(in)
		assert.NoError(t, err)
		assert.InDelta(t, 0.08, lot, 1e-9)
	})

	t.Run("news multiplier shrinks lot", func(t *testing.T) {
		in := baseInput()
		in.NewsMultiplier = 0.5
		lot, err := ComputeLotSize(in)
		assert.NoError(t, err)
		assert.InDelta(t, 0.05, lot, 1e-9)
	})

	t.Run("clamped to max lot", func(t *testing.T) {
		in := baseInput()
		in.MaxLot = 0.05
		lot, err := ComputeLotSize(in)
		assert.NoError(t, err)
		assert.InDelta(t, 0.05, lot, 1e-9)
	})

	t.Run("raised to min lot", func(t *testing.T) {
		in := baseInput()
		in.Balance = 100 // raw lot 0.001
		lot, err := ComputeLotSize(in)
		assert.NoError(t, err)
		assert.InDelta(t, 0.01, lot, 1e-9)
	})

	t.Run("quantized down to lot step", func(t *testing.T) {
		in := baseInput()
		in.RiskPercent = 1.17 // raw lot 0.117
		lot, err := ComputeLotSize(in)
		assert.NoError(t, err)
		assert.InDelta(t, 0.11, lot, 1e-9)
	})

	t.Run("fixed lot fallback without atr", func(t *testing.T) {
		in := baseInput()
		in.ATR = 0
		in.FixedLot = 0.05
		lot, err := ComputeLotSize(in)
		assert.NoError(t, err)
		assert.InDelta(t, 0.05, lot, 1e-9)
	})

	t.Run("unavailable without atr and fixed lot", func(t *testing.T) {
		in := baseInput()
		in.ATR = 0
		_, err := ComputeLotSize(in)
		assert.ErrorIs(t, err, ErrRiskUnavailable)
	})

	t.Run("unavailable without balance", func(t *testing.T) {
		in := baseInput()
		in.Balance = 0
		_, err := ComputeLotSize(in)
		assert.ErrorIs(t, err, ErrRiskUnavailable)
	})
}

func TestQuantizeDown(t *testing.T) {
	// 0.10/0.01 must land on 10 steps, not 9, despite binary floats.
	assert.InDelta(t, 0.10, quantizeDown(0.10, 0.01), 1e-12)
	assert.InDelta(t, 0.11, quantizeDown(0.119, 0.01), 1e-12)
	assert.InDelta(t, 0.0, quantizeDown(0.009, 0.01), 1e-12)
}
