package models

import "time"

// BusinessSetting is the per-tenant knob set the engine reads each tick.
type BusinessSetting struct {
	ID                    int       `gorm:"primary_key" json:"id"`
	BusinessId            string    `gorm:"uniqueIndex;not null" json:"business_id" binding:"required"`
	AutomationEnabled     *bool     `gorm:"not null;default:true" json:"automation_enabled"`
	OverdueAlertEnabled   *bool     `gorm:"not null;default:true" json:"overdue_alert_enabled"`
	OverdueAlertDays      int       `gorm:"default:30" json:"overdue_alert_days"`
	DefaultWarehouseId    int       `gorm:"default:0" json:"default_warehouse_id"`
	AutoRestockSupplierId int       `gorm:"default:0" json:"auto_restock_supplier_id"`
	Locale                string    `gorm:"size:5;default:'en'" json:"locale"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj BusinessSetting) GetId() int {
	return obj.ID
}
