package dto

// OnboardRequest picks the user's role exactly once and seeds the matching
// profile. Business fields are required for BUSINESS, stage name for MODEL.
type OnboardRequest struct {
	Role         string `json:"role" binding:"required,oneof=BUSINESS MODEL"`
	CompanyName  string `json:"company_name" binding:"max=100"`
	Website      string `json:"website" binding:"max=255"`
	Industry     string `json:"industry" binding:"max=50"`
	StageName    string `json:"stage_name" binding:"max=100"`
	Bio          string `json:"bio" binding:"max=2000"`
	PortfolioURL string `json:"portfolio_url" binding:"max=500"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"max=50"`
	LastName  string `json:"last_name" binding:"max=50"`
}

// ModelCard is the public browse entry for a model profile.
type ModelCard struct {
	ID           int64  `json:"id"`
	StageName    string `json:"stage_name"`
	Bio          string `json:"bio"`
	PortfolioURL string `json:"portfolio_url"`
	AvatarURL    string `json:"avatar_url"`
}
