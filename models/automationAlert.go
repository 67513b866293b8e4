package models

import "time"

// AutomationAlert is the persisted dedup ledger for at-most-once alerts.
// The composite unique index is the dedup contract: a duplicate-key insert
// means the alert already fired, so the caller suppresses the event. Rows
// survive restarts and are safe when several engine instances run.
type AutomationAlert struct {
	ID          int       `gorm:"primary_key" json:"id"`
	BusinessId  string    `gorm:"uniqueIndex:idx_alert_rule_ref;not null" json:"business_id"`
	RuleName    string    `gorm:"uniqueIndex:idx_alert_rule_ref;size:50;not null" json:"rule_name"`
	ReferenceId int       `gorm:"uniqueIndex:idx_alert_rule_ref;not null" json:"reference_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (obj AutomationAlert) GetId() int {
	return obj.ID
}
