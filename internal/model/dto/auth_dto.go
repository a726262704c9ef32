package dto

type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

type UserInfo struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	AvatarURL string  `json:"avatar_url"`
	Role      *string `json:"role"`
	PlanID    string  `json:"plan_id"`
	PlanName  string  `json:"plan_name"`
	Credits   int     `json:"credits"`
}

type AuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}
