package models

import "time"

// AutomationLogEntry records one rule outcome within a tick. Entries live in
// the engine's bounded in-memory ring only; they are not persisted.
type AutomationLogEntry struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	RuleName  string              `json:"rule_name"`
	Detail    string              `json:"detail"`
	Status    AutomationRunStatus `json:"status"`
}
