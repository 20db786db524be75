package risk

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrRiskUnavailable means the sizing inputs cannot support a risk-based
// lot: no balance, or no ATR and no configured fallback lot. Callers decide
// whether that aborts the entry or degrades to the minimum lot.
var ErrRiskUnavailable = errors.New("risk sizing unavailable")

// Volatility and session scaling are policy constants, not tunables. The
// ratio thresholds are ATR relative to the reference price.
const (
	highVolatilityRatio = 0.015
	lowVolatilityRatio  = 0.008
	highVolatilityScale = 0.7
	lowVolatilityScale  = 1.3

	quietSessionEndHour = 8
	quietSessionScale   = 0.8
)

// LotInput carries everything ComputeLotSize needs for one sizing call.
type LotInput struct {
	Balance         float64
	ATR             float64 // 0 = unavailable
	ReferencePrice  float64 // current price, denominator for the volatility ratio
	RiskPercent     float64
	PointValue      float64 // account-currency value of one point per whole lot
	EmergencySLMult float64
	MinLot          float64
	MaxLot          float64
	LotStep         float64
	FixedLot        float64 // fallback when ATR is unavailable; 0 = none
	NewsMultiplier  float64 // (0,1]; anything else is treated as 1
	SessionHour     int     // decision hour, 0-23 UTC
}

// ComputeLotSize sizes a new position so the emergency stop distance risks
// RiskPercent of balance, then applies volatility, session and news scaling,
// clamps to [MinLot, MaxLot] and quantizes DOWN to a LotStep multiple so the
// result never risks more than RiskPercent.
func ComputeLotSize(in LotInput) (float64, error) {
	if in.Balance <= 0 {
		return 0, ErrRiskUnavailable
	}
	if in.MinLot <= 0 || in.MaxLot < in.MinLot || in.LotStep <= 0 {
		return 0, ErrRiskUnavailable
	}

	var lot float64
	switch {
	case in.ATR > 0:
		if in.PointValue <= 0 || in.EmergencySLMult <= 0 {
			return 0, ErrRiskUnavailable
		}
		riskDollars := in.Balance * in.RiskPercent / 100
		lot = riskDollars / (in.ATR * in.PointValue * in.EmergencySLMult)
	case in.FixedLot > 0:
		lot = in.FixedLot
	default:
		return 0, ErrRiskUnavailable
	}

	// Volatility scaling needs an ATR; skipped on the fixed-lot path.
	if in.ATR > 0 && in.ReferencePrice > 0 {
		ratio := in.ATR / in.ReferencePrice
		switch {
		case ratio > highVolatilityRatio:
			lot *= highVolatilityScale
		case ratio < lowVolatilityRatio:
			lot *= lowVolatilityScale
		}
	}

	if in.SessionHour >= 0 && in.SessionHour < quietSessionEndHour {
		lot *= quietSessionScale
	}

	if in.NewsMultiplier > 0 && in.NewsMultiplier < 1 {
		lot *= in.NewsMultiplier
	}

	if lot < in.MinLot {
		lot = in.MinLot
	}
	if lot > in.MaxLot {
		lot = in.MaxLot
	}
	return quantizeDown(lot, in.LotStep), nil
}

// quantizeDown floors lot to the nearest multiple of step. Broker lot steps
// like 0.01 are not exactly representable in binary floats, so the division
// runs through decimal to avoid 0.10/0.01 landing on 9 steps.
func quantizeDown(lot, step float64) float64 {
	d := decimal.NewFromFloat(lot)
	s := decimal.NewFromFloat(step)
	steps := d.Div(s).Floor()
	out, _ := steps.Mul(s).Float64()
	return out
}
