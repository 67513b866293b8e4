package models

import (
	"encoding/json"
	"time"
)

type NotificationEventType string

const (
	EventExpenseCreated        NotificationEventType = "expense.created"
	EventIncomeCreated         NotificationEventType = "income.created"
	EventLowStockAlert         NotificationEventType = "inventory.low_stock"
	EventProjectBudgetExceeded NotificationEventType = "project.budget_exceeded"
	EventDebtReminder          NotificationEventType = "debt.reminder"
	EventTickCompleted         NotificationEventType = "automation.tick_completed"
)

// NotificationEvent is the bus envelope. The delivery fan-out (webhooks,
// chat integrations, email) consumes these downstream of the Pub/Sub topic.
type NotificationEvent struct {
	ID         string                `json:"id"`
	BusinessId string                `json:"business_id"`
	Type       NotificationEventType `json:"type"`
	Actor      string                `json:"actor,omitempty"`
	Payload    json.RawMessage       `json:"payload"`
	Timestamp  time.Time             `json:"timestamp"`
	Locale     string                `json:"locale"`
}
