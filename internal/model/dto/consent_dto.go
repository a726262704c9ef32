package dto

type CreateConsentRequest struct {
	ModelID int64  `json:"model_id" binding:"required"`
	Message string `json:"message" binding:"max=2000"`
}

type ConsentInfo struct {
	ID          int64  `json:"id"`
	BusinessID  int64  `json:"business_id"`
	ModelID     int64  `json:"model_id"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	RequestedAt string `json:"requested_at"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	GrantedAt   string `json:"granted_at,omitempty"`
	RejectedAt  string `json:"rejected_at,omitempty"`

	// Counterparty display fields for the dashboards.
	BusinessName string `json:"business_name,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
}

type ConsentListQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
