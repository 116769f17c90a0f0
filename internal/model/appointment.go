package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Appointment statuses
const (
	AppointmentScheduled = "Scheduled"
	AppointmentCompleted = "Completed"
	AppointmentPending   = "Pending"
)

// Appointment is a booked customer visit
type Appointment struct {
	ID           string           `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID     string           `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Tenant       *Tenant          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CustomerName string           `json:"customer_name" gorm:"type:varchar(255);not null"`
	Phone        string           `json:"phone" gorm:"type:varchar(32)"`
	Service      string           `json:"service" gorm:"type:varchar(255)"`
	Amount       *decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	Date         datatypes.Date   `json:"date" gorm:"index;not null"`
	Time         *string          `json:"time" gorm:"type:varchar(5)"`
	Status       string           `json:"status" gorm:"type:varchar(32);not null;default:'Scheduled'"`
	CreatedAt    time.Time        `json:"created_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}
	return nil
}

// Day returns the appointment date as a time value
func (a Appointment) Day() time.Time {
	return time.Time(a.Date)
}

// AmountValue returns the amount or zero when unset
func (a Appointment) AmountValue() decimal.Decimal {
	if a.Amount == nil {
		return decimal.Zero
	}
	return *a.Amount
}
