package model

import (
	"time"
)

// Payment providers.
const (
	ProviderStripe       = "stripe"
	ProviderLemonSqueezy = "lemonsqueezy"
)

// PaymentRecord is one settled payment as reported by a provider webhook or a
// reconciliation pull. ProviderTxnID is unique per provider so replayed
// webhooks cannot double-record.
type PaymentRecord struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"not null;index" json:"user_id"`
	Provider      string    `gorm:"size:20;not null;uniqueIndex:uidx_payment_provider_txn" json:"provider"`
	ProviderTxnID string    `gorm:"size:100;not null;uniqueIndex:uidx_payment_provider_txn" json:"provider_txn_id"`
	PlanID        string    `gorm:"size:30" json:"plan_id"`
	Amount        float64   `gorm:"type:decimal(10,2)" json:"amount"`
	Currency      string    `gorm:"size:10;default:usd" json:"currency"`
	PaidAt        time.Time `gorm:"not null;index" json:"paid_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}

// Credit transaction reasons.
const (
	CreditReasonRender      = "render"
	CreditReasonRefund      = "render_refund"
	CreditReasonPlanRenewal = "plan_renewal"
	CreditReasonAdmin       = "admin_adjustment"
)

// CreditTransaction is an append-only ledger entry for every balance change.
type CreditTransaction struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	Delta        int       `gorm:"not null" json:"delta"`
	BalanceAfter int       `gorm:"not null" json:"balance_after"`
	Reason       string    `gorm:"size:50;not null" json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
