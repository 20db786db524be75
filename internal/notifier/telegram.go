// Package notifier pushes trade lifecycle events to Telegram. Delivery is
// best effort: failures are logged and never block the trading loop.
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"obot/internal/logger"
)

type Telegram struct {
	BotToken string
	ChatID   string
	Client   *http.Client
}

func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{BotToken: botToken, ChatID: chatID, Client: &http.Client{Timeout: 15 * time.Second}}
}

// SendText delivers one text message, retrying up to 3 times with a linear
// backoff.
func (t *Telegram) SendText(text string) error {
	if t.BotToken == "" || t.ChatID == "" {
		return fmt.Errorf("telegram config incomplete")
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.BotToken)

	payload := map[string]any{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	body, _ := json.Marshal(payload)

	var lastErr error
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("POST", url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := t.Client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode/100 == 2 {
			return nil
		}
		lastErr = fmt.Errorf("telegram status=%d", resp.StatusCode)
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	return lastErr
}

// Notifier is the event-level surface the controller uses. A nil receiver
// is a no-op so callers never need to branch on whether Telegram is enabled.
type Notifier struct {
	telegram *Telegram
}

func New(telegram *Telegram) *Notifier {
	return &Notifier{telegram: telegram}
}

func (n *Notifier) send(text string) {
	if n == nil || n.telegram == nil {
		return
	}
	go func() {
		if err := n.telegram.SendText(text); err != nil {
			logger.Warnf("telegram notify failed: %v", err)
		}
	}()
}

func (n *Notifier) PositionOpened(symbol, side string, lots, price, stopLoss float64) {
	n.send(fmt.Sprintf("*OPEN* %s %s %.2f lots @ %.5f SL %.5f", symbol, side, lots, price, stopLoss))
}

func (n *Notifier) PositionClosed(symbol, reason string, profit, price float64) {
	n.send(fmt.Sprintf("*CLOSE* %s @ %.5f profit %.2f (%s)", symbol, price, profit, reason))
}

func (n *Notifier) StopLossMoved(symbol string, newStopLoss float64, reason string) {
	n.send(fmt.Sprintf("*SL* %s moved to %.5f (%s)", symbol, newStopLoss, reason))
}

func (n *Notifier) TradingHalted(symbol, reason string) {
	n.send(fmt.Sprintf("*HALT* %s trading disabled: %s", symbol, reason))
}
