package repository

import (
	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/internal/model"
)

type AvatarRepository struct {
	db *gorm.DB
}

func NewAvatarRepository(db *gorm.DB) *AvatarRepository {
	return &AvatarRepository{db: db}
}

func (r *AvatarRepository) Create(avatar *model.Avatar) error {
	return r.db.Create(avatar).Error
}

func (r *AvatarRepository) GetByID(id int64) (*model.Avatar, error) {
	var avatar model.Avatar
	err := r.db.Where("id = ?", id).First(&avatar).Error
	if err != nil {
		return nil, err
	}
	return &avatar, nil
}

func (r *AvatarRepository) List(gender, bodyType, skinTone string, page, pageSize int) ([]model.Avatar, int64, error) {
	var avatars []model.Avatar
	var total int64

	query := r.db.Model(&model.Avatar{})
	if gender != "" {
		query = query.Where("gender = ?", gender)
	}
	if bodyType != "" {
		query = query.Where("body_type = ?", bodyType)
	}
	if skinTone != "" {
		query = query.Where("skin_tone = ?", skinTone)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&avatars).Error
	return avatars, total, err
}
