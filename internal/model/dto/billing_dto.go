package dto

type PlanInfo struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	MonthlyCredits int     `json:"monthly_credits"`
	Premium        bool    `json:"premium"`
}

type BillingInfo struct {
	Plan     PlanInfo `json:"plan"`
	Credits  int      `json:"credits"`
	RenewsAt string   `json:"renews_at,omitempty"`
}

type CheckoutRequest struct {
	Provider string `json:"provider" binding:"required,oneof=stripe lemonsqueezy"`
	PlanID   string `json:"plan_id" binding:"required"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type PaymentInfo struct {
	ID       int64   `json:"id"`
	Provider string  `json:"provider"`
	PlanID   string  `json:"plan_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	PaidAt   string  `json:"paid_at"`
}

type AdjustCreditsRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,max=50"`
}
