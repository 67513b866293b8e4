package models

import (
	"time"

	"bitbucket.org/mmdatafocus/books_automation/utils"
	"github.com/shopspring/decimal"
)

type Debt struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id" binding:"required"`
	CustomerId    int             `gorm:"index;not null" json:"customer_id" binding:"required"`
	InvoiceNumber string          `gorm:"size:255" json:"invoice_number"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CurrencyCode  string          `gorm:"size:3;not null" json:"currency_code"`
	DueDate       time.Time       `gorm:"not null" json:"due_date" binding:"required"`
	CurrentStatus DebtStatus      `gorm:"type:enum('Pending','Partial','Overdue','Paid');not null;default:'Pending'" json:"current_status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj Debt) GetId() int {
	return obj.ID
}

// DaysOverdue returns whole days past the due date, zero when not yet due.
// Both dates are truncated to UTC days so a due date carrying a time-of-day
// cannot undercount against the day-truncated tick date.
func (d Debt) DaysOverdue(today time.Time) int {
	due := utils.TruncateToDayUTC(d.DueDate)
	days := int(utils.TruncateToDayUTC(today).Sub(due).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
