package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id" binding:"required"`
	Name         string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Sku          string          `gorm:"size:100" json:"sku"`
	UnitRate     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_rate"`
	ReorderPoint decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reorder_point"`
	IsActive     *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj Product) GetId() int {
	return obj.ID
}

// TracksReorder reports whether the product participates in low-stock rules.
func (p Product) TracksReorder() bool {
	return p.ReorderPoint.IsPositive()
}
