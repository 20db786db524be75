package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"obot/internal/types"
)

func TestEmergencyStopLoss(t *testing.T) {
	t.Run("long below price", func(t *testing.T) {
		sl, ok := EmergencyStopLoss(types.SideLong, 2000, 5, 2)
		assert.True(t, ok)
		assert.InDelta(t, 1990, sl, 1e-9)
	})

	t.Run("short above price", func(t *testing.T) {
		sl, ok := EmergencyStopLoss(types.SideShort, 2000, 5, 2)
		assert.True(t, ok)
		assert.InDelta(t, 2010, sl, 1e-9)
	})

	t.Run("rejects missing inputs", func(t *testing.T) {
		_, ok := EmergencyStopLoss(types.SideLong, 2000, 0, 2)
		assert.False(t, ok)
		_, ok = EmergencyStopLoss(types.SideNone, 2000, 5, 2)
		assert.False(t, ok)
		_, ok = EmergencyStopLoss(types.SideLong, 0, 5, 2)
		assert.False(t, ok)
	})
}

func TestTightenStopLoss(t *testing.T) {
	t.Run("long only ratchets up", func(t *testing.T) {
		sl, ok := TightenStopLoss(types.SideLong, 2000, 1980, 5, 1)
		assert.True(t, ok)
		assert.InDelta(t, 1995, sl, 1e-9)

		// A looser candidate is refused.
		_, ok = TightenStopLoss(types.SideLong, 2000, 1996, 5, 1)
		assert.False(t, ok)
	})

	t.Run("short only ratchets down", func(t *testing.T) {
		sl, ok := TightenStopLoss(types.SideShort, 2000, 2020, 5, 1)
		assert.True(t, ok)
		assert.InDelta(t, 2005, sl, 1e-9)

		_, ok = TightenStopLoss(types.SideShort, 2000, 2004, 5, 1)
		assert.False(t, ok)
	})

	t.Run("accepts when no stop is set", func(t *testing.T) {
		sl, ok := TightenStopLoss(types.SideLong, 2000, 0, 5, 2)
		assert.True(t, ok)
		assert.InDelta(t, 1990, sl, 1e-9)
	})
}
