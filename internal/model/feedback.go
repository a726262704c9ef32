package model

import (
	"time"
)

// Feedback is a user satisfaction rating with an optional comment.
type Feedback struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

// Lead is a newsletter email capture from the marketing pages.
type Lead struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Source    string    `gorm:"size:50" json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Lead) TableName() string {
	return "leads"
}
