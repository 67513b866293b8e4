package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income mirrors Expense: a record that doubles as a recurring template.
type Income struct {
	ID                  int                  `gorm:"primary_key" json:"id"`
	BusinessId          string               `gorm:"index;not null" json:"business_id" binding:"required"`
	Category            string               `gorm:"size:100" json:"category"`
	Description         string               `gorm:"size:255" json:"description"`
	RecordDate          time.Time            `gorm:"not null" json:"record_date" binding:"required"`
	CurrencyCode        string               `gorm:"size:3;not null" json:"currency_code" binding:"required"`
	Amount              decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CustomerId          int                  `gorm:"index;default:null" json:"customer_id"`
	CurrentStatus       RecordStatus         `gorm:"type:enum('Draft','Confirmed');not null;default:'Confirmed'" json:"current_status"`
	IsAutoGenerated     *bool                `gorm:"not null;default:false" json:"is_auto_generated"`
	SourceTemplateId    int                  `gorm:"index;default:null" json:"source_template_id"`
	RecurrenceFrequency *RecurrenceFrequency `gorm:"type:enum('D','W','M','Y');default:null" json:"recurrence_frequency"`
	LastRecurrenceDate  *time.Time           `gorm:"default:null" json:"last_recurrence_date"`
	CreatedAt           time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj Income) GetId() int {
	return obj.ID
}

func (i Income) IsRecurring() bool {
	return i.RecurrenceFrequency != nil && i.RecurrenceFrequency.IsValid()
}

func (i Income) Frequency() RecurrenceFrequency {
	if i.RecurrenceFrequency == nil {
		return ""
	}
	return *i.RecurrenceFrequency
}

func (i Income) RecurrenceCursor() time.Time {
	if i.LastRecurrenceDate != nil {
		return *i.LastRecurrenceDate
	}
	return i.CreatedAt
}
