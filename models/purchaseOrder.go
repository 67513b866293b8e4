package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrder struct {
	ID               int                   `gorm:"primary_key" json:"id"`
	BusinessId       string                `gorm:"index;not null" json:"business_id" binding:"required"`
	SupplierId       int                   `gorm:"index;not null" json:"supplier_id" binding:"required"`
	WarehouseId      int                   `gorm:"not null" json:"warehouse_id"`
	OrderNumber      string                `gorm:"size:255;not null" json:"order_number" binding:"required"`
	OrderDate        time.Time             `gorm:"not null" json:"order_date" binding:"required"`
	CurrencyCode     string                `gorm:"size:3;not null" json:"currency_code"`
	CurrentStatus    PurchaseOrderStatus   `gorm:"type:enum('Draft','Sent','Received','Cancelled');not null" json:"current_status" binding:"required"`
	OrderTotalAmount decimal.Decimal       `gorm:"type:decimal(20,4);default:0" json:"order_total_amount"`
	IsAutoGenerated  *bool                 `gorm:"not null;default:false" json:"is_auto_generated"`
	Details          []PurchaseOrderDetail `json:"purchase_order_details" validate:"required,dive,required"`
	CreatedAt        time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderDetail struct {
	ID                int             `gorm:"primary_key" json:"id"`
	PurchaseOrderId   int             `gorm:"index;not null" json:"purchase_order_id"`
	ProductId         int             `gorm:"index" json:"product_id"`
	Name              string          `gorm:"size:100" json:"name" binding:"required"`
	DetailQty         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"detail_qty" binding:"required"`
	DetailUnitRate    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"detail_unit_rate"`
	DetailTotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"detail_total_amount"`
}

func (obj PurchaseOrder) GetId() int {
	return obj.ID
}

// CoversProduct reports whether any line of the order is for the product.
func (po PurchaseOrder) CoversProduct(productId int) bool {
	for _, d := range po.Details {
		if d.ProductId == productId {
			return true
		}
	}
	return false
}
