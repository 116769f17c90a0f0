package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interaction statuses
const (
	InteractionNew        = "New"
	InteractionInProgress = "In Progress"
	InteractionCompleted  = "Completed"
)

// Interaction channels. An empty channel means the source did not say.
const (
	ChannelWhatsApp  = "WhatsApp"
	ChannelTelegram  = "Telegram"
	ChannelInstagram = "Instagram"
)

// Interaction is a customer conversation on a messaging channel
type Interaction struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID     string    `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Tenant       *Tenant   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CustomerName string    `json:"customer_name" gorm:"type:varchar(255);not null"`
	Channel      *string   `json:"channel" gorm:"type:varchar(32)"`
	Status       string    `json:"status" gorm:"type:varchar(32);not null;default:'New'"`
	Description  string    `json:"description" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = InteractionNew
	}
	return nil
}

// ChannelName returns the channel or an empty string when unset
func (i Interaction) ChannelName() string {
	if i.Channel == nil {
		return ""
	}
	return *i.Channel
}
