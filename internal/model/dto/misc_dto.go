package dto

type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type LeadRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Source string `json:"source" binding:"max=50"`
}

type CheckDomainResponse struct {
	Valid bool `json:"valid"`
}

type CreateAvatarRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Gender          string `json:"gender" binding:"required,oneof=female male nonbinary"`
	BodyType        string `json:"body_type" binding:"max=30"`
	SkinTone        string `json:"skin_tone" binding:"max=30"`
	ImageURL        string `json:"image_url" binding:"required,max=500"`
	ProviderModelID string `json:"provider_model_id" binding:"max=100"`
}

type AvatarListQuery struct {
	Gender   string `form:"gender"`
	BodyType string `form:"body_type"`
	SkinTone string `form:"skin_tone"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
