package guard

// CooldownState is persisted alongside the breaker state.
type CooldownState struct {
	BarsRemaining int `json:"bars_remaining"`
}

// Cooldown blocks new entries for a fixed number of bars after any position
// close, whatever triggered the close.
type Cooldown struct {
	bars  int
	state CooldownState
}

func NewCooldown(bars int) *Cooldown {
	return &Cooldown{bars: bars}
}

// Arm starts (or restarts) the full cooldown window.
func (c *Cooldown) Arm() {
	c.state.BarsRemaining = c.bars
}

// Step consumes one bar. It returns true when this bar is still inside the
// cooldown window, i.e. entries stay blocked; the decrement happens on the
// same call so exactly `bars` evaluations are blocked after Arm.
func (c *Cooldown) Step() bool {
	if c.state.BarsRemaining <= 0 {
		return false
	}
	c.state.BarsRemaining--
	return true
}

func (c *Cooldown) Remaining() int { return c.state.BarsRemaining }

func (c *Cooldown) State() CooldownState { return c.state }

func (c *Cooldown) Restore(state CooldownState) {
	if state.BarsRemaining < 0 {
		return
	}
	c.state = state
}
