package models

// RecurrenceFrequency drives the calendar advance of a recurring template.
type RecurrenceFrequency string

const (
	RecurrenceDaily   RecurrenceFrequency = "D"
	RecurrenceWeekly  RecurrenceFrequency = "W"
	RecurrenceMonthly RecurrenceFrequency = "M"
	RecurrenceYearly  RecurrenceFrequency = "Y"
)

func (f RecurrenceFrequency) IsValid() bool {
	switch f {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

type RecordStatus string

const (
	RecordStatusDraft     RecordStatus = "Draft"
	RecordStatusConfirmed RecordStatus = "Confirmed"
)

type DebtStatus string

const (
	DebtStatusPending DebtStatus = "Pending"
	DebtStatusPartial DebtStatus = "Partial"
	DebtStatusOverdue DebtStatus = "Overdue"
	DebtStatusPaid    DebtStatus = "Paid"
)

// IsOutstanding reports whether the debt still carries a balance the
// customer owes. Paid debts never contribute to risk or reminders.
func (s DebtStatus) IsOutstanding() bool {
	switch s {
	case DebtStatusPending, DebtStatusPartial, DebtStatusOverdue:
		return true
	}
	return false
}

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "Draft"
	PurchaseOrderStatusSent      PurchaseOrderStatus = "Sent"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "Received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "Cancelled"
)

// IsOpen reports whether the order still covers an incoming restock, which
// excludes its products from auto-restock candidacy.
func (s PurchaseOrderStatus) IsOpen() bool {
	return s == PurchaseOrderStatusDraft || s == PurchaseOrderStatusSent
}

type ProjectStatus string

const (
	ProjectStatusInProgress  ProjectStatus = "InProgress"
	ProjectStatusNeedsReview ProjectStatus = "NeedsReview"
	ProjectStatusCompleted   ProjectStatus = "Completed"
	ProjectStatusOnHold      ProjectStatus = "OnHold"
)

type RiskTier string

const (
	RiskTierLow    RiskTier = "Low"
	RiskTierMedium RiskTier = "Medium"
	RiskTierHigh   RiskTier = "High"
)

type AutomationRunStatus string

const (
	AutomationRunSuccess AutomationRunStatus = "Success"
	AutomationRunFailed  AutomationRunStatus = "Failed"
)
