package risk

import "obot/internal/types"

// EmergencyStopLoss places the initial protective stop one ATR-multiple away
// from price. ok is false when no ATR is available; the caller decides
// whether to proceed unprotected.
func EmergencyStopLoss(side types.Side, price, atr, multiplier float64) (sl float64, ok bool) {
	if atr <= 0 || price <= 0 || multiplier <= 0 {
		return 0, false
	}
	distance := atr * multiplier
	switch side {
	case types.SideLong:
		return price - distance, true
	case types.SideShort:
		return price + distance, true
	default:
		return 0, false
	}
}

// TightenStopLoss computes a news-tightened stop candidate and returns it
// only when it moves the stop toward the market. The ratchet is one-way:
// stop distance may shrink under news pressure, never grow. A zero current
// stop counts as "unprotected" and always accepts the candidate.
func TightenStopLoss(side types.Side, currentPrice, currentSL, atr, multiplier float64) (sl float64, ok bool) {
	candidate, ok := EmergencyStopLoss(side, currentPrice, atr, multiplier)
	if !ok {
		return 0, false
	}
	switch side {
	case types.SideLong:
		if currentSL == 0 || candidate > currentSL {
			return candidate, true
		}
	case types.SideShort:
		if currentSL == 0 || candidate < currentSL {
			return candidate, true
		}
	}
	return 0, false
}
