package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel is the per-warehouse on-hand quantity of a product.
type StockLevel struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"index;not null" json:"business_id" binding:"required"`
	WarehouseId int             `gorm:"index;not null" json:"warehouse_id" binding:"required"`
	ProductId   int             `gorm:"index;not null" json:"product_id" binding:"required"`
	CurrentQty  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_qty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj StockLevel) GetId() int {
	return obj.ID
}

// SumStockByProduct collapses warehouse rows into productId -> total on-hand.
// Derived per tick, never persisted.
func SumStockByProduct(levels []StockLevel) map[int]decimal.Decimal {
	totals := make(map[int]decimal.Decimal, len(levels))
	for _, l := range levels {
		totals[l.ProductId] = totals[l.ProductId].Add(l.CurrentQty)
	}
	return totals
}
