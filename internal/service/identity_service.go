package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/identity"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/jwt"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrRoleAlreadySet   = errors.New("role already chosen")
	ErrEmailUnverified  = errors.New("email not verified by identity provider")
	ErrIdentityExchange = errors.New("identity provider exchange failed")
	ErrMissingProfile   = errors.New("profile fields missing for role")
)

type IdentityService struct {
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	idClient    *identity.Client
	states      *identity.StateStore
	cfg         *config.Config
}

func NewIdentityService(
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	idClient *identity.Client,
	states *identity.StateStore,
	cfg *config.Config,
) *IdentityService {
	return &IdentityService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		idClient:    idClient,
		states:      states,
		cfg:         cfg,
	}
}

// LoginURL returns the provider's hosted sign-in URL with a single-use state.
func (s *IdentityService) LoginURL(ctx context.Context, redirectURI string) (*dto.AuthURLResponse, error) {
	state, err := s.states.GenerateState(ctx, redirectURI)
	if err != nil {
		return nil, err
	}

	return &dto.AuthURLResponse{
		URL:   s.idClient.GetAuthURL(state),
		State: state,
	}, nil
}

// HandleCallback finishes the provider code flow: validates the state,
// exchanges the code, upserts the user by provider subject and mints a
// session token. First visit creates the user on the free plan.
func (s *IdentityService) HandleCallback(ctx context.Context, code, state string) (*dto.LoginResponse, string, error) {
	redirectURI, err := s.states.ValidateState(ctx, state)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrIdentityExchange, err)
	}

	token, err := s.idClient.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrIdentityExchange, err)
	}

	providerUser, err := s.idClient.GetUser(ctx, token)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrIdentityExchange, err)
	}
	if !providerUser.EmailVerified {
		return nil, "", ErrEmailUnverified
	}

	user, err := s.userRepo.GetByExternalID(providerUser.Subject)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	if user == nil {
		free := s.cfg.FreePlan()
		user = &model.User{
			ExternalID: providerUser.Subject,
			Email:      providerUser.Email,
			FirstName:  providerUser.GivenName,
			LastName:   providerUser.FamilyName,
			AvatarURL:  providerUser.Picture,
			PlanID:     "free",
			PlanName:   free.Name,
			PlanPrice:  free.Price,
			Credits:    free.MonthlyCredits,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, "", err
		}
	} else {
		// keep display fields in sync with the provider
		user.Email = providerUser.Email
		user.FirstName = providerUser.GivenName
		user.LastName = providerUser.FamilyName
		user.AvatarURL = providerUser.Picture
		if err := s.userRepo.Update(user); err != nil {
			return nil, "", err
		}
	}

	sessionToken, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, "", err
	}

	return &dto.LoginResponse{
		Token: sessionToken,
		User:  s.buildUserInfo(user),
	}, redirectURI, nil
}

// ResolveRole maps a user to an effective role. The admin allow-list wins
// over the stored role; any miss resolves to "" (needs onboarding). Lookup
// failures fail closed to "".
func (s *IdentityService) ResolveRole(userID int64) string {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ""
	}
	return s.roleOf(user)
}

func (s *IdentityService) roleOf(user *model.User) string {
	for _, admin := range s.cfg.Identity.AdminEmails {
		if strings.EqualFold(admin, user.Email) {
			return model.RoleAdmin
		}
	}
	if user.Role != nil {
		return *user.Role
	}
	return ""
}

// Onboard assigns the user's role exactly once and seeds the matching
// profile. A second call fails with ErrRoleAlreadySet.
func (s *IdentityService) Onboard(userID int64, req *dto.OnboardRequest) (*dto.UserInfo, error) {
	switch req.Role {
	case model.RoleBusiness:
		if req.CompanyName == "" {
			return nil, ErrMissingProfile
		}
	case model.RoleModel:
		if req.StageName == "" {
			return nil, ErrMissingProfile
		}
	}

	rows, err := s.userRepo.SetRole(userID, req.Role)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := s.userRepo.GetByID(userID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrRoleAlreadySet
	}

	switch req.Role {
	case model.RoleBusiness:
		err = s.profileRepo.CreateBusiness(&model.BusinessProfile{
			UserID:      userID,
			CompanyName: req.CompanyName,
			Website:     req.Website,
			Industry:    req.Industry,
		})
	case model.RoleModel:
		err = s.profileRepo.CreateModel(&model.ModelProfile{
			UserID:       userID,
			StageName:    req.StageName,
			Bio:          req.Bio,
			PortfolioURL: req.PortfolioURL,
		})
	}
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.buildUserInfo(user), nil
}

// GetMe returns the session user with role, plan and balance.
func (s *IdentityService) GetMe(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildUserInfo(user), nil
}

// UpdateProfile updates the user's display name fields.
func (s *IdentityService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
	}); err != nil {
		return nil, err
	}
	return s.GetMe(userID)
}

func (s *IdentityService) buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		AvatarURL: user.AvatarURL,
		PlanID:    user.PlanID,
		PlanName:  user.PlanName,
		Credits:   user.Credits,
	}
	if role := s.roleOf(user); role != "" {
		info.Role = &role
	}
	return info
}
