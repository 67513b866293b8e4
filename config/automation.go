package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// AutomationConfig collects every tunable the automation engine uses.
// Historically these were hard-coded in the rule evaluators; keeping them in
// one validated struct allows tenant-specific tuning and deterministic tests.
//
// Env overrides (optional):
// - AUTOMATION_TICK_SECONDS (default 60)
// - AUTOMATION_CATCHUP_LIMIT (default 12)
// - AUTOMATION_RESTOCK_MULTIPLIER (default 2)
// - AUTOMATION_RESTOCK_MIN_QTY (default 10)
// - AUTOMATION_OVERDUE_DAYS_DEFAULT (default 30)
// - AUTOMATION_SALES_LOOKBACK_DAYS (default 90)
// - AUTOMATION_LOG_RING_CAP (default 200)
// - AUTOMATION_LOCK_TTL_SECONDS (default 120)
type AutomationConfig struct {
	TickSeconds    int `validate:"min=1"`
	CatchUpLimit   int `validate:"min=1,max=100"`
	LockTTLSeconds int `validate:"min=1"`

	RestockMultiplier int `validate:"min=1"`
	RestockMinQty     int `validate:"min=1"`

	// Risk score = outstanding/OutstandingDivisor
	//            + (overdue/outstanding)*OverdueRatioWeight
	//            + overdueCount*OverdueCountWeight
	RiskOutstandingDivisor int `validate:"min=1"`
	RiskOverdueRatioWeight int `validate:"min=0"`
	RiskOverdueCountWeight int `validate:"min=0"`
	RiskHighCutoff         int `validate:"min=1"`
	RiskMediumCutoff       int `validate:"min=1"`

	OverdueDaysDefault int `validate:"min=0"`
	SalesLookbackDays  int `validate:"min=1"`
	LogRingCap         int `validate:"min=1"`
}

func DefaultAutomationConfig() AutomationConfig {
	return AutomationConfig{
		TickSeconds:            60,
		CatchUpLimit:           12,
		LockTTLSeconds:         120,
		RestockMultiplier:      2,
		RestockMinQty:          10,
		RiskOutstandingDivisor: 2000,
		RiskOverdueRatioWeight: 50,
		RiskOverdueCountWeight: 5,
		RiskHighCutoff:         50,
		RiskMediumCutoff:       20,
		OverdueDaysDefault:     30,
		SalesLookbackDays:      90,
		LogRingCap:             200,
	}
}

// LoadAutomationConfig applies env overrides on the defaults and validates
// the result. Invalid configuration is a startup failure, not a silent
// fallback.
func LoadAutomationConfig() (AutomationConfig, error) {
	cfg := DefaultAutomationConfig()
	cfg.TickSeconds = IntFromEnv("AUTOMATION_TICK_SECONDS", cfg.TickSeconds)
	cfg.CatchUpLimit = IntFromEnv("AUTOMATION_CATCHUP_LIMIT", cfg.CatchUpLimit)
	cfg.LockTTLSeconds = IntFromEnv("AUTOMATION_LOCK_TTL_SECONDS", cfg.LockTTLSeconds)
	cfg.RestockMultiplier = IntFromEnv("AUTOMATION_RESTOCK_MULTIPLIER", cfg.RestockMultiplier)
	cfg.RestockMinQty = IntFromEnv("AUTOMATION_RESTOCK_MIN_QTY", cfg.RestockMinQty)
	cfg.OverdueDaysDefault = IntFromEnv("AUTOMATION_OVERDUE_DAYS_DEFAULT", cfg.OverdueDaysDefault)
	cfg.SalesLookbackDays = IntFromEnv("AUTOMATION_SALES_LOOKBACK_DAYS", cfg.SalesLookbackDays)
	cfg.LogRingCap = IntFromEnv("AUTOMATION_LOG_RING_CAP", cfg.LogRingCap)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return AutomationConfig{}, err
	}
	return cfg, nil
}

func (c AutomationConfig) TickInterval() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

func (c AutomationConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}
