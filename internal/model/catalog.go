package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is an entry of the tenant's offerable catalog
type Service struct {
	ID       string          `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID string          `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Tenant   *Tenant         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Name     string          `json:"name" gorm:"type:varchar(255);not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;default:0"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ScheduleSlot holds the opening hours for one weekday.
// (tenant_id, weekday) is unique.
type ScheduleSlot struct {
	ID        string  `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID  string  `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_schedule_tenant_weekday"`
	Tenant    *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Weekday   string  `json:"weekday" gorm:"type:varchar(16);not null;uniqueIndex:idx_schedule_tenant_weekday"`
	StartTime string  `json:"start_time" gorm:"type:varchar(5);not null"`
	EndTime   string  `json:"end_time" gorm:"type:varchar(5);not null"`
	Active    bool    `json:"active" gorm:"not null"`
}

func (s *ScheduleSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// PaymentLinkSet stores the checkout links shared with customers. One row per tenant.
type PaymentLinkSet struct {
	ID          string  `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    string  `json:"tenant_id" gorm:"type:uuid;uniqueIndex;not null"`
	Tenant      *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	GenericLink string  `json:"generic_link" gorm:"type:text"`
	PixLink     string  `json:"pix_link" gorm:"type:text"`
	CardLink    string  `json:"card_link" gorm:"type:text"`
}

// TableName overrides the pluralized default
func (PaymentLinkSet) TableName() string {
	return "payment_links"
}

func (p *PaymentLinkSet) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// VoiceTone is the prompt handed to the external AI agent. One row per tenant.
type VoiceTone struct {
	ID       string  `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID string  `json:"tenant_id" gorm:"type:uuid;uniqueIndex;not null"`
	Tenant   *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Prompt   string  `json:"prompt" gorm:"type:text;not null"`
}

func (v *VoiceTone) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
