package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendTextRequiresConfig(t *testing.T) {
	tg := NewTelegram("", "")
	assert.Error(t, tg.SendText("hello"))
}

func TestNilNotifierIsNoop(t *testing.T) {
	var n *Notifier
	// Disabled notifications must never panic in the trading loop.
	n.PositionOpened("XAUUSD", "long", 0.1, 2000, 1990)
	n.PositionClosed("XAUUSD", "signal", 10, 2010)
	n.StopLossMoved("XAUUSD", 1995, "news")
	n.TradingHalted("XAUUSD", "daily_loss_limit")

	n = New(nil)
	n.PositionOpened("XAUUSD", "long", 0.1, 2000, 1990)
}
