package model

import (
	"time"
)

// User roles. Role stays nil until the user picks a side during onboarding.
const (
	RoleBusiness = "BUSINESS"
	RoleModel    = "MODEL"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID                     int64      `gorm:"primaryKey" json:"id"`
	ExternalID             string     `gorm:"size:100;uniqueIndex;not null" json:"-"` // identity-provider subject
	Email                  string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FirstName              string     `gorm:"size:50" json:"first_name"`
	LastName               string     `gorm:"size:50" json:"last_name"`
	AvatarURL              string     `gorm:"size:500" json:"avatar_url"`
	Role                   *string    `gorm:"size:20;index" json:"role,omitempty"`
	PlanID                 string     `gorm:"size:30;default:free" json:"plan_id"`
	PlanName               string     `gorm:"size:50;default:Free" json:"plan_name"`
	PlanPrice              float64    `gorm:"type:decimal(10,2);default:0" json:"plan_price"`
	PlanPremium            bool       `gorm:"default:false" json:"plan_premium"`
	Credits                int        `gorm:"default:0" json:"credits"`
	CreditsRenewAt         *time.Time `json:"credits_renew_at,omitempty"`
	StripeCustomerID       *string    `gorm:"column:stripe_customer_id;size:100;uniqueIndex" json:"-"`
	LemonSqueezyCustomerID *string    `gorm:"column:lemonsqueezy_customer_id;size:100;uniqueIndex" json:"-"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user finished onboarding with the given role.
func (u *User) HasRole(role string) bool {
	return u.Role != nil && *u.Role == role
}
