package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is both the ledger record and, when RecurrenceFrequency is set,
// the template that generates periodic draft copies of itself.
type Expense struct {
	ID                  int                  `gorm:"primary_key" json:"id"`
	BusinessId          string               `gorm:"index;not null" json:"business_id" binding:"required"`
	Category            string               `gorm:"size:100" json:"category"`
	Description         string               `gorm:"size:255" json:"description"`
	RecordDate          time.Time            `gorm:"not null" json:"record_date" binding:"required"`
	CurrencyCode        string               `gorm:"size:3;not null" json:"currency_code" binding:"required"`
	Amount              decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"amount"`
	ProjectId           int                  `gorm:"index;default:null" json:"project_id"`
	CurrentStatus       RecordStatus         `gorm:"type:enum('Draft','Confirmed');not null;default:'Confirmed'" json:"current_status"`
	IsAutoGenerated     *bool                `gorm:"not null;default:false" json:"is_auto_generated"`
	SourceTemplateId    int                  `gorm:"index;default:null" json:"source_template_id"`
	RecurrenceFrequency *RecurrenceFrequency `gorm:"type:enum('D','W','M','Y');default:null" json:"recurrence_frequency"`
	LastRecurrenceDate  *time.Time           `gorm:"default:null" json:"last_recurrence_date"`
	CreatedAt           time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj Expense) GetId() int {
	return obj.ID
}

func (e Expense) IsRecurring() bool {
	return e.RecurrenceFrequency != nil && e.RecurrenceFrequency.IsValid()
}

func (e Expense) Frequency() RecurrenceFrequency {
	if e.RecurrenceFrequency == nil {
		return ""
	}
	return *e.RecurrenceFrequency
}

// RecurrenceCursor is the sole cursor driving how many occurrences are due.
// It defaults to the template's creation date before the first generation.
func (e Expense) RecurrenceCursor() time.Time {
	if e.LastRecurrenceDate != nil {
		return *e.LastRecurrenceDate
	}
	return e.CreatedAt
}
