package repository

import (
	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateBusiness(p *model.BusinessProfile) error {
	return r.db.Create(p).Error
}

func (r *ProfileRepository) CreateModel(p *model.ModelProfile) error {
	return r.db.Create(p).Error
}

func (r *ProfileRepository) GetBusinessByUserID(userID int64) (*model.BusinessProfile, error) {
	var p model.BusinessProfile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetModelByUserID(userID int64) (*model.ModelProfile, error) {
	var p model.ModelProfile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetBusinessByID(id int64) (*model.BusinessProfile, error) {
	var p model.BusinessProfile
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetModelByID(id int64) (*model.ModelProfile, error) {
	var p model.ModelProfile
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) ListModels(page, pageSize int) ([]model.ModelProfile, int64, error) {
	var profiles []model.ModelProfile
	var total int64

	if err := r.db.Model(&model.ModelProfile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&profiles).Error
	return profiles, total, err
}
