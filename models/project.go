package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id" binding:"required"`
	Name          string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Budget        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"budget"`
	CurrencyCode  string          `gorm:"size:3" json:"currency_code"`
	CurrentStatus ProjectStatus   `gorm:"type:enum('InProgress','NeedsReview','Completed','OnHold');not null;default:'InProgress'" json:"current_status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj Project) GetId() int {
	return obj.ID
}

// TracksBudget reports whether the budget monitor should evaluate the
// project. NeedsReview stays in scope so the warning keeps repeating until
// someone resolves the project.
func (p Project) TracksBudget() bool {
	if !p.Budget.IsPositive() {
		return false
	}
	return p.CurrentStatus == ProjectStatusInProgress || p.CurrentStatus == ProjectStatusNeedsReview
}
