package model

import (
	"time"
)

// Avatar is an AI-generated stock model. Immutable after creation.
type Avatar struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Gender          string    `gorm:"size:20;not null;index" json:"gender"`
	BodyType        string    `gorm:"size:30;index" json:"body_type"`
	SkinTone        string    `gorm:"size:30;index" json:"skin_tone"`
	ImageURL        string    `gorm:"size:500;not null" json:"image_url"`
	ProviderModelID string    `gorm:"size:100" json:"-"` // generation-provider reference, if pre-trained
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Avatar) TableName() string {
	return "avatars"
}
