package config

// Config is the full configuration surface of the bot.
type Config struct {
	App      AppConfig      `toml:"app"`
	Predict  PredictConfig  `toml:"predict"`
	Bridge   BridgeConfig   `toml:"bridge"`
	Symbol   SymbolConfig   `toml:"symbol"`
	Risk     RiskConfig     `toml:"risk"`
	Trailing TrailingConfig `toml:"trailing"`
	Guard    GuardConfig    `toml:"guard"`
	Schedule ScheduleConfig `toml:"schedule"`
	Notify   NotifyConfig   `toml:"notify"`
	Store    StoreConfig    `toml:"store"`
}

type AppConfig struct {
	Env           string `toml:"env"`
	LogLevel      string `toml:"log_level"`
	LogPath       string `toml:"log_path"`
	HTTPAddr      string `toml:"http_addr"`
	DecisionLog   string `toml:"decision_log_path"`
	DumpPayloads  bool   `toml:"dump_payloads"`
	OverridesPath string `toml:"overrides_path"`
}

// PredictConfig describes the external prediction service.
type PredictConfig struct {
	APIURL         string `toml:"api_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	BarsSent       int    `toml:"bars_sent"`
}

// BridgeConfig describes the market/execution bridge. Mode "paper" runs the
// in-process simulated executor instead of the REST bridge.
type BridgeConfig struct {
	Mode           string  `toml:"mode"` // "rest" | "paper"
	APIURL         string  `toml:"api_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	PaperBalance   float64 `toml:"paper_balance"`
}

type SymbolConfig struct {
	Name       string  `toml:"name"`
	Timeframe  string  `toml:"timeframe"`
	StrategyID int64   `toml:"strategy_id"` // order tag / magic number
	PointValue float64 `toml:"point_value"` // account-currency value of one point per whole lot
}

type RiskConfig struct {
	UseDynamicLot   bool    `toml:"use_dynamic_lot"`
	FixedLot        float64 `toml:"fixed_lot"`
	RiskPercent     float64 `toml:"risk_percent"`
	MinLot          float64 `toml:"min_lot"`
	MaxLot          float64 `toml:"max_lot"`
	LotStep         float64 `toml:"lot_step"`
	EmergencySLMult float64 `toml:"emergency_sl_atr_mult"`
	NewsSLMult      float64 `toml:"news_sl_atr_mult"`
	MaxSpreadPoints float64 `toml:"max_spread_points"`
	MinLotOnNoRisk  bool    `toml:"min_lot_on_risk_unavailable"`
}

type TrailingConfig struct {
	BreakevenTriggerPct   float64 `toml:"breakeven_trigger_pct"`
	TrailingActivationPct float64 `toml:"trailing_activation_pct"`
	TrailingDistancePct   float64 `toml:"trailing_distance_pct"`
}

type GuardConfig struct {
	MaxConsecutiveLosses int     `toml:"max_consecutive_losses"`
	PenaltyHours         float64 `toml:"penalty_hours"`
	CooldownBars         int     `toml:"cooldown_bars"`
	MaxDailyLossPct      float64 `toml:"max_daily_loss_pct"`
	MaxDrawdownPct       float64 `toml:"max_drawdown_pct"`
}

type ScheduleConfig struct {
	StartHour          int  `toml:"start_hour"`
	EndHour            int  `toml:"end_hour"`
	CloseOnScheduleEnd bool `toml:"close_on_schedule_end"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `toml:"enabled"`
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}
