package model

import (
	"time"
)

// Render job statuses.
const (
	RenderQueued     = "queued"
	RenderProcessing = "processing"
	RenderCompleted  = "completed"
	RenderFailed     = "failed"
)

// Render target kinds.
const (
	RenderTargetModel  = "model"
	RenderTargetAvatar = "avatar"
)

// RenderJob is one garment-on-model generation request and its history record.
type RenderJob struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	UserID         int64      `gorm:"not null;index" json:"user_id"`
	TargetType     string     `gorm:"size:20;not null" json:"target_type"`
	ModelID        *int64     `gorm:"index" json:"model_id,omitempty"`
	AvatarID       *int64     `gorm:"index" json:"avatar_id,omitempty"`
	GarmentURL     string     `gorm:"size:500;not null" json:"garment_url"`
	ResultURL      string     `gorm:"size:500" json:"result_url,omitempty"`
	Status         string     `gorm:"size:20;not null;default:queued;index" json:"status"`
	ProviderJobID  string     `gorm:"size:100;index" json:"-"`
	ErrorMessage   string     `gorm:"type:text" json:"error_message,omitempty"`
	CreditRefunded bool       `gorm:"default:false" json:"-"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (RenderJob) TableName() string {
	return "render_jobs"
}
