package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"index;not null" json:"business_id" binding:"required"`
	SaleNumber  string          `gorm:"size:255" json:"sale_number"`
	SaleDate    time.Time       `gorm:"index;not null" json:"sale_date" binding:"required"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Items       []SaleItem      `json:"sale_items"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type SaleItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	SaleId    int             `gorm:"index;not null" json:"sale_id"`
	ProductId int             `gorm:"index" json:"product_id"`
	Qty       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	UnitRate  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_rate"`
}

func (obj Sale) GetId() int {
	return obj.ID
}
