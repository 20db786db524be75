package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCooldownBlocksExactCount(t *testing.T) {
	c := NewCooldown(3)
	assert.False(t, c.Step(), "unarmed cooldown never blocks")

	c.Arm()
	assert.True(t, c.Step())
	assert.True(t, c.Step())
	assert.True(t, c.Step())
	assert.False(t, c.Step(), "fourth bar after arming is free")
}

func TestCooldownRearmRestartsWindow(t *testing.T) {
	c := NewCooldown(2)
	c.Arm()
	assert.True(t, c.Step())
	c.Arm()
	assert.True(t, c.Step())
	assert.True(t, c.Step())
	assert.False(t, c.Step())
}

func TestCooldownRestore(t *testing.T) {
	c := NewCooldown(5)
	c.Restore(CooldownState{BarsRemaining: 1})
	assert.Equal(t, 1, c.Remaining())
	assert.True(t, c.Step())
	assert.False(t, c.Step())

	c.Restore(CooldownState{BarsRemaining: -2})
	assert.Equal(t, 0, c.Remaining())
}
