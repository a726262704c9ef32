package repository

import (
	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/internal/model"
)

type RenderRepository struct {
	db *gorm.DB
}

func NewRenderRepository(db *gorm.DB) *RenderRepository {
	return &RenderRepository{db: db}
}

func (r *RenderRepository) Create(job *model.RenderJob) error {
	return r.db.Create(job).Error
}

func (r *RenderRepository) GetByID(id int64) (*model.RenderJob, error) {
	var job model.RenderJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *RenderRepository) Update(job *model.RenderJob) error {
	return r.db.Save(job).Error
}

func (r *RenderRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.RenderJob{}).Where("id = ?", id).Updates(fields).Error
}

// MarkRefunded flips credit_refunded once. The guard keeps a crashed-and-
// retried worker from refunding the same job twice.
func (r *RenderRepository) MarkRefunded(id int64) (int64, error) {
	res := r.db.Model(&model.RenderJob{}).
		Where("id = ? AND credit_refunded = ?", id, false).
		Update("credit_refunded", true)
	return res.RowsAffected, res.Error
}

func (r *RenderRepository) ListByUser(userID int64, status string, page, pageSize int) ([]model.RenderJob, int64, error) {
	var jobs []model.RenderJob
	var total int64

	query := r.db.Model(&model.RenderJob{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}
