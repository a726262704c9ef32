package model

import (
	"time"
)

type BusinessProfile struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	CompanyName string    `gorm:"size:100;not null" json:"company_name"`
	Website     string    `gorm:"size:255" json:"website"`
	Industry    string    `gorm:"size:50" json:"industry"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (BusinessProfile) TableName() string {
	return "business_profiles"
}

type ModelProfile struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	StageName    string    `gorm:"size:100;not null" json:"stage_name"`
	Bio          string    `gorm:"type:text" json:"bio"`
	PortfolioURL string    `gorm:"size:500" json:"portfolio_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ModelProfile) TableName() string {
	return "model_profiles"
}
