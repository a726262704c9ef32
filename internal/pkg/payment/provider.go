package payment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBadSignature = errors.New("webhook signature mismatch")
	ErrUnknownEvent = errors.New("unhandled webhook event")
)

// Webhook event kinds, normalized across providers.
const (
	EventPaymentSucceeded     = "payment_succeeded"
	EventSubscriptionUpdated  = "subscription_updated"
	EventSubscriptionCanceled = "subscription_canceled"
)

// CheckoutParams describes a checkout session to create on the provider.
type CheckoutParams struct {
	CustomerEmail string
	CustomerID    string // provider customer id, empty on first purchase
	PlanID        string
	SuccessURL    string
	CancelURL     string
	Reference     string // our user id, echoed back in webhooks
}

// Event is a provider webhook normalized to the fields billing cares about.
type Event struct {
	Type       string
	CustomerID string
	Reference  string
	PlanID     string
	TxnID      string
	Amount     float64
	Currency   string
	PaidAt     time.Time
	PeriodEnd  *time.Time
}

// SubscriptionState is the provider's current view of a customer, used for
// on-demand reconciliation.
type SubscriptionState struct {
	PlanID    string
	Active    bool
	PeriodEnd *time.Time
}

// Provider is one pluggable payment backend. Webhook verification is
// HMAC-SHA256 over the raw payload with a constant-time compare.
type Provider interface {
	Name() string
	CreateCheckout(ctx context.Context, params CheckoutParams) (string, error)
	VerifyWebhook(payload []byte, signatureHeader string) error
	ParseWebhook(payload []byte) (*Event, error)
	FetchSubscription(ctx context.Context, customerID string) (*SubscriptionState, error)
}
