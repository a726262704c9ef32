package dto

type CreateRenderResponse struct {
	RenderID int64  `json:"render_id"`
	Status   string `json:"status"`
	Credits  int    `json:"credits"` // balance after the submission
}

type RenderInfo struct {
	ID          int64  `json:"id"`
	TargetType  string `json:"target_type"`
	ModelID     *int64 `json:"model_id,omitempty"`
	AvatarID    *int64 `json:"avatar_id,omitempty"`
	GarmentURL  string `json:"garment_url"`
	ResultURL   string `json:"result_url,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type RenderListQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
