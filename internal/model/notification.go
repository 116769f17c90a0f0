package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationSaleConfirmed      = "sale_confirmed"
	NotificationNewAppointment     = "new_appointment"
	NotificationInteractionStarted = "interaction_started"
)

// Notification is an append-only activity feed entry
type Notification struct {
	ID        string           `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID  string           `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Tenant    *Tenant          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Type      string           `json:"type" gorm:"type:varchar(64);not null"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	Amount    *decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
