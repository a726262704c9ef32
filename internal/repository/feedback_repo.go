package repository

import (
	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/internal/model"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) CreateFeedback(f *model.Feedback) error {
	return r.db.Create(f).Error
}

func (r *FeedbackRepository) ListFeedback(page, pageSize int) ([]model.Feedback, int64, error) {
	var items []model.Feedback
	var total int64

	if err := r.db.Model(&model.Feedback{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *FeedbackRepository) CreateLead(l *model.Lead) error {
	return r.db.Create(l).Error
}

func (r *FeedbackRepository) ExistsLeadByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Lead{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *FeedbackRepository) ListLeads(page, pageSize int) ([]model.Lead, int64, error) {
	var leads []model.Lead
	var total int64

	if err := r.db.Model(&model.Lead{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&leads).Error
	return leads, total, err
}
