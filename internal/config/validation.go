package config

import (
	"fmt"
	"strings"
)

func validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if strings.TrimSpace(cfg.Predict.APIURL) == "" {
		return fmt.Errorf("predict.api_url is required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Bridge.Mode)) {
	case "rest", "paper":
	default:
		return fmt.Errorf("bridge.mode must be \"rest\" or \"paper\", got %q", cfg.Bridge.Mode)
	}
	if cfg.Risk.MinLot > cfg.Risk.MaxLot {
		return fmt.Errorf("risk.min_lot (%.2f) exceeds risk.max_lot (%.2f)", cfg.Risk.MinLot, cfg.Risk.MaxLot)
	}
	if !cfg.Risk.UseDynamicLot && cfg.Risk.FixedLot <= 0 {
		return fmt.Errorf("risk.fixed_lot is required when use_dynamic_lot is disabled")
	}
	if cfg.Trailing.TrailingDistancePct >= cfg.Trailing.TrailingActivationPct {
		return fmt.Errorf("trailing.trailing_distance_pct must be below trailing_activation_pct")
	}
	if cfg.Schedule.StartHour < 0 || cfg.Schedule.StartHour > 23 {
		return fmt.Errorf("schedule.start_hour out of range: %d", cfg.Schedule.StartHour)
	}
	if cfg.Schedule.EndHour < 0 || cfg.Schedule.EndHour > 23 {
		return fmt.Errorf("schedule.end_hour out of range: %d", cfg.Schedule.EndHour)
	}
	if cfg.Notify.Telegram.Enabled {
		if cfg.Notify.Telegram.BotToken == "" || cfg.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("notify.telegram requires bot_token and chat_id when enabled")
		}
	}
	switch strings.ToUpper(strings.TrimSpace(cfg.Symbol.Timeframe)) {
	case "M5", "M15", "H1":
	default:
		return fmt.Errorf("symbol.timeframe must be one of M5/M15/H1, got %q", cfg.Symbol.Timeframe)
	}
	return nil
}
