package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a business account. Every other table is partitioned by its id.
type Tenant struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Tier      string    `json:"tier" gorm:"type:varchar(32);not null;default:'Starter'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a uuid when the caller did not set one
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TenantModels lists every table owned by the service, tenants first
func TenantModels() []interface{} {
	return []interface{}{
		&Tenant{},
		&Appointment{},
		&Interaction{},
		&Payment{},
		&Service{},
		&ScheduleSlot{},
		&PaymentLinkSet{},
		&VoiceTone{},
		&Notification{},
	}
}
