package models

import "time"

type Customer struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id" binding:"required"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email      string    `gorm:"size:100" json:"email"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Mobile     string    `gorm:"size:20" json:"mobile"`
	RiskTier   RiskTier  `gorm:"type:enum('Low','Medium','High');not null;default:'Low'" json:"risk_tier"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj Customer) GetId() int {
	return obj.ID
}

// ContactInfo picks the best reachable contact for reminder payloads.
func (c Customer) ContactInfo() string {
	if c.Email != "" {
		return c.Email
	}
	if c.Mobile != "" {
		return c.Mobile
	}
	return c.Phone
}
