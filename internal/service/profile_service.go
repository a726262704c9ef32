package service

import (
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
)

// ProfileService serves the public model browse catalog.
type ProfileService struct {
	profileRepo *repository.ProfileRepository
	userRepo    *repository.UserRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository, userRepo *repository.UserRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

// ListModels returns browsable model cards, newest first.
func (s *ProfileService) ListModels(page, pageSize int) ([]dto.ModelCard, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	profiles, total, err := s.profileRepo.ListModels(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	cards := make([]dto.ModelCard, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		card := dto.ModelCard{
			ID:           p.ID,
			StageName:    p.StageName,
			Bio:          p.Bio,
			PortfolioURL: p.PortfolioURL,
		}
		if user, err := s.userRepo.GetByID(p.UserID); err == nil {
			card.AvatarURL = user.AvatarURL
		}
		cards = append(cards, card)
	}
	return cards, total, nil
}
