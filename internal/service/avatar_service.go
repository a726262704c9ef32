package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
)

// AvatarService serves the synthetic model catalog.
type AvatarService struct {
	avatarRepo *repository.AvatarRepository
}

func NewAvatarService(avatarRepo *repository.AvatarRepository) *AvatarService {
	return &AvatarService{avatarRepo: avatarRepo}
}

// List returns catalog avatars filtered by appearance attributes.
func (s *AvatarService) List(query *dto.AvatarListQuery) ([]model.Avatar, int64, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)
	return s.avatarRepo.List(query.Gender, query.BodyType, query.SkinTone, page, pageSize)
}

// Get returns one catalog avatar.
func (s *AvatarService) Get(id int64) (*model.Avatar, error) {
	avatar, err := s.avatarRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAvatarNotFound
		}
		return nil, err
	}
	return avatar, nil
}

// Create adds an avatar to the catalog. Admin only, enforced at the router.
func (s *AvatarService) Create(req *dto.CreateAvatarRequest) (*model.Avatar, error) {
	avatar := &model.Avatar{
		Name:            req.Name,
		Gender:          req.Gender,
		BodyType:        req.BodyType,
		SkinTone:        req.SkinTone,
		ImageURL:        req.ImageURL,
		ProviderModelID: req.ProviderModelID,
	}
	if err := s.avatarRepo.Create(avatar); err != nil {
		return nil, err
	}
	return avatar, nil
}
