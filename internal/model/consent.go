package model

import (
	"time"
)

// Consent request statuses. PENDING is the only non-terminal state.
const (
	ConsentPending  = "PENDING"
	ConsentApproved = "APPROVED"
	ConsentRejected = "REJECTED"
	ConsentExpired  = "EXPIRED"
)

// ConsentRequest records a business asking to use a model's likeness. At most
// one row may exist per (business_id, model_id) pair, in any status.
type ConsentRequest struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	BusinessID  int64      `gorm:"not null;uniqueIndex:uidx_consent_business_model;index" json:"business_id"`
	ModelID     int64      `gorm:"not null;uniqueIndex:uidx_consent_business_model;index" json:"model_id"`
	Status      string     `gorm:"size:20;not null;default:PENDING;index:idx_consent_status_requested" json:"status"`
	Message     string     `gorm:"type:text" json:"message,omitempty"`
	RequestedAt time.Time  `gorm:"not null;index:idx_consent_status_requested" json:"requested_at"`
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at,omitempty"`
	GrantedAt   *time.Time `json:"granted_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (ConsentRequest) TableName() string {
	return "consent_requests"
}

// ExpiredBy reports whether a still-PENDING request has lapsed at the given
// instant. Terminal statuses never re-expire.
func (r *ConsentRequest) ExpiredBy(now time.Time) bool {
	return r.Status == ConsentPending && r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// EffectiveStatus is the status consumers should observe: PENDING past its
// expiry reads as EXPIRED even before the sweep persists it.
func (r *ConsentRequest) EffectiveStatus(now time.Time) string {
	if r.ExpiredBy(now) {
		return ConsentExpired
	}
	return r.Status
}
