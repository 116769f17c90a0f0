package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment statuses
const (
	PaymentPaid      = "Paid"
	PaymentPending   = "Pending"
	PaymentCancelled = "Cancelled"
)

// Payment methods
const (
	MethodPix  = "Pix"
	MethodCard = "Card"
	MethodLink = "Link"
)

// Payment is money received or expected from a customer
type Payment struct {
	ID           string          `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID     string          `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Tenant       *Tenant         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CustomerName string          `json:"customer_name" gorm:"type:varchar(255);not null"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Method       *string         `json:"method" gorm:"type:varchar(32)"`
	Status       string          `json:"status" gorm:"type:varchar(32);not null;default:'Pending'"`
	ReceivedAt   time.Time       `json:"received_at" gorm:"index;not null"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PaymentPending
	}
	if p.ReceivedAt.IsZero() {
		p.ReceivedAt = time.Now()
	}
	return nil
}
