package config

import "strings"

const (
	defaultAppEnv         = "dev"
	defaultAppLogLevel    = "info"
	defaultAppHTTPAddr    = ":9985"
	defaultAppLogPath     = "data/logs/obot.log"
	defaultAppDecisionLog = "data/logs/obot-predict.log"

	defaultPredictTimeout = 10
	defaultPredictBars    = 300

	defaultBridgeMode    = "rest"
	defaultBridgeAPI     = "http://127.0.0.1:5555"
	defaultBridgeTimeout = 10
	defaultPaperBalance  = 10000

	defaultSymbolName      = "XAUUSD"
	defaultSymbolTimeframe = "M5"
	defaultStrategyID      = 20240
	defaultPointValue      = 100

	defaultRiskPercent     = 1.0
	defaultMinLot          = 0.01
	defaultMaxLot          = 0.10
	defaultLotStep         = 0.01
	defaultEmergencySLMult = 2.0
	defaultNewsSLMult      = 1.0
	defaultMaxSpreadPoints = 50

	defaultBreakevenTriggerPct   = 0.5
	defaultTrailingActivationPct = 1.0
	defaultTrailingDistancePct   = 0.3

	defaultMaxConsecutiveLosses = 3
	defaultPenaltyHours         = 4.0
	defaultCooldownBars         = 12
	defaultMaxDailyLossPct      = 5.0
	defaultMaxDrawdownPct       = 10.0

	defaultScheduleStartHour = 1
	defaultScheduleEndHour   = 23

	defaultStorePath = "data/db/obot.db"
)

type keySet map[string]bool

func (k keySet) mark(key string) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key != "" {
		k[key] = true
	}
}

func (k keySet) has(key string) bool {
	return k[strings.ToLower(strings.TrimSpace(key))]
}

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Predict.applyDefaults(keys)
	c.Bridge.applyDefaults(keys)
	c.Symbol.applyDefaults(keys)
	c.Risk.applyDefaults(keys)
	c.Trailing.applyDefaults(keys)
	c.Guard.applyDefaults(keys)
	c.Schedule.applyDefaults(keys)
	c.Store.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a.Env == "" {
		a.Env = defaultAppEnv
	}
	if a.LogLevel == "" {
		a.LogLevel = defaultAppLogLevel
	}
	if a.HTTPAddr == "" {
		a.HTTPAddr = defaultAppHTTPAddr
	}
	if a.LogPath == "" && !keys.has("app.log_path") {
		a.LogPath = defaultAppLogPath
	}
	if a.DecisionLog == "" && !keys.has("app.decision_log_path") {
		a.DecisionLog = defaultAppDecisionLog
	}
}

func (p *PredictConfig) applyDefaults(keys keySet) {
	if p.TimeoutSeconds <= 0 {
		p.TimeoutSeconds = defaultPredictTimeout
	}
	if p.BarsSent <= 0 {
		p.BarsSent = defaultPredictBars
	}
}

func (b *BridgeConfig) applyDefaults(keys keySet) {
	if b.Mode == "" {
		b.Mode = defaultBridgeMode
	}
	if b.APIURL == "" {
		b.APIURL = defaultBridgeAPI
	}
	if b.TimeoutSeconds <= 0 {
		b.TimeoutSeconds = defaultBridgeTimeout
	}
	if b.PaperBalance <= 0 {
		b.PaperBalance = defaultPaperBalance
	}
}

func (s *SymbolConfig) applyDefaults(keys keySet) {
	if s.Name == "" {
		s.Name = defaultSymbolName
	}
	if s.Timeframe == "" {
		s.Timeframe = defaultSymbolTimeframe
	}
	if s.StrategyID <= 0 {
		s.StrategyID = defaultStrategyID
	}
	if s.PointValue <= 0 {
		s.PointValue = defaultPointValue
	}
}

func (r *RiskConfig) applyDefaults(keys keySet) {
	if !keys.has("risk.use_dynamic_lot") {
		r.UseDynamicLot = true
	}
	if r.RiskPercent <= 0 {
		r.RiskPercent = defaultRiskPercent
	}
	if r.MinLot <= 0 {
		r.MinLot = defaultMinLot
	}
	if r.MaxLot <= 0 {
		r.MaxLot = defaultMaxLot
	}
	if r.LotStep <= 0 {
		r.LotStep = defaultLotStep
	}
	if r.EmergencySLMult <= 0 {
		r.EmergencySLMult = defaultEmergencySLMult
	}
	if r.NewsSLMult <= 0 {
		r.NewsSLMult = defaultNewsSLMult
	}
	if r.MaxSpreadPoints <= 0 {
		r.MaxSpreadPoints = defaultMaxSpreadPoints
	}
}

func (t *TrailingConfig) applyDefaults(keys keySet) {
	if t.BreakevenTriggerPct <= 0 {
		t.BreakevenTriggerPct = defaultBreakevenTriggerPct
	}
	if t.TrailingActivationPct <= 0 {
		t.TrailingActivationPct = defaultTrailingActivationPct
	}
	if t.TrailingDistancePct <= 0 {
		t.TrailingDistancePct = defaultTrailingDistancePct
	}
}

func (g *GuardConfig) applyDefaults(keys keySet) {
	if g.MaxConsecutiveLosses <= 0 {
		g.MaxConsecutiveLosses = defaultMaxConsecutiveLosses
	}
	if g.PenaltyHours <= 0 {
		g.PenaltyHours = defaultPenaltyHours
	}
	if g.CooldownBars <= 0 && !keys.has("guard.cooldown_bars") {
		g.CooldownBars = defaultCooldownBars
	}
	if g.MaxDailyLossPct <= 0 {
		g.MaxDailyLossPct = defaultMaxDailyLossPct
	}
	if g.MaxDrawdownPct <= 0 {
		g.MaxDrawdownPct = defaultMaxDrawdownPct
	}
}

func (s *ScheduleConfig) applyDefaults(keys keySet) {
	if s.StartHour <= 0 && !keys.has("schedule.start_hour") {
		s.StartHour = defaultScheduleStartHour
	}
	if s.EndHour <= 0 && !keys.has("schedule.end_hour") {
		s.EndHour = defaultScheduleEndHour
	}
}

func (s *StoreConfig) applyDefaults(keys keySet) {
	if s.Path == "" {
		s.Path = defaultStorePath
	}
}
