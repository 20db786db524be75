// Package guard holds the entry gates that sit between a BUY/SELL signal
// and an actual order: the consecutive-loss circuit breaker, the post-close
// cooldown, and the account safety monitor. All state here is owned by the
// lifecycle controller's goroutine; none of it is safe for concurrent use.
package guard

import (
	"time"

	"obot/internal/logger"
)

// BreakerState survives across bars and across positions, and is persisted
// so a restart does not forget a losing streak.
type BreakerState struct {
	ConsecutiveLosses int   `json:"consecutive_losses"`
	LastLossAtUnix    int64 `json:"last_loss_at"`
}

// LossBreaker blocks new entries after a run of realized losses until a
// penalty window has elapsed. Unlike a service circuit breaker it never
// half-opens: the counter resets only at the moment an attempt is permitted
// after the window, not passively on a timer.
type LossBreaker struct {
	maxLosses int
	penalty   time.Duration
	state     BreakerState
	nowFn     func() time.Time
}

func NewLossBreaker(maxLosses int, penalty time.Duration) *LossBreaker {
	return &LossBreaker{
		maxLosses: maxLosses,
		penalty:   penalty,
		nowFn:     time.Now,
	}
}

// RecordResult feeds one realized trade outcome. Any non-negative profit
// clears the streak.
func (b *LossBreaker) RecordResult(profit float64) {
	if profit < 0 {
		b.state.ConsecutiveLosses++
		b.state.LastLossAtUnix = b.nowFn().Unix()
		if b.state.ConsecutiveLosses >= b.maxLosses {
			logger.Warnf("loss breaker tripped: %d consecutive losses, entries blocked for %s",
				b.state.ConsecutiveLosses, b.penalty)
		}
		return
	}
	if b.state.ConsecutiveLosses > 0 {
		logger.Infof("loss breaker cleared after %d losses", b.state.ConsecutiveLosses)
	}
	b.state.ConsecutiveLosses = 0
}

// Allow reports whether a new entry may proceed. When the penalty window
// has elapsed it also resets the streak, so exactly one permitted attempt
// performs the reset.
func (b *LossBreaker) Allow() bool {
	if b.state.ConsecutiveLosses < b.maxLosses {
		return true
	}
	lastLoss := time.Unix(b.state.LastLossAtUnix, 0)
	if b.nowFn().Sub(lastLoss) >= b.penalty {
		logger.Infof("loss breaker penalty window elapsed, resetting streak")
		b.state.ConsecutiveLosses = 0
		return true
	}
	return false
}

// Tripped reports the gate without the reset side effect, for status views.
func (b *LossBreaker) Tripped() bool {
	if b.state.ConsecutiveLosses < b.maxLosses {
		return false
	}
	return b.nowFn().Sub(time.Unix(b.state.LastLossAtUnix, 0)) < b.penalty
}

// SetClock replaces the time source so the breaker shares its owner's
// clock.
func (b *LossBreaker) SetClock(fn func() time.Time) {
	if fn != nil {
		b.nowFn = fn
	}
}

func (b *LossBreaker) State() BreakerState { return b.state }

func (b *LossBreaker) Restore(state BreakerState) {
	if state.ConsecutiveLosses < 0 {
		return
	}
	b.state = state
}
