package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/internal/model"
)

type ConsentRepository struct {
	db *gorm.DB
}

func NewConsentRepository(db *gorm.DB) *ConsentRepository {
	return &ConsentRepository{db: db}
}

func (r *ConsentRepository) Create(req *model.ConsentRequest) error {
	return r.db.Create(req).Error
}

func (r *ConsentRepository) GetByID(id int64) (*model.ConsentRequest, error) {
	var req model.ConsentRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ConsentRepository) GetByPair(businessID, modelID int64) (*model.ConsentRequest, error) {
	var req model.ConsentRequest
	err := r.db.Where("business_id = ? AND model_id = ?", businessID, modelID).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Transition flips a PENDING request to a terminal status with a single
// conditional UPDATE. The status and expiry predicates make the transition a
// compare-and-swap: of two racing callers exactly one sees RowsAffected == 1.
// stampColumn is granted_at or rejected_at.
func (r *ConsentRepository) Transition(id int64, toStatus, stampColumn string, now time.Time) (int64, error) {
	res := r.db.Model(&model.ConsentRequest{}).
		Where("id = ? AND status = ?", id, model.ConsentPending).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Updates(map[string]interface{}{
			"status":    toStatus,
			stampColumn: now,
		})
	return res.RowsAffected, res.Error
}

// MarkExpired persists EXPIRED on every PENDING request past its expiry.
// Returns the number of rows swept.
func (r *ConsentRepository) MarkExpired(now time.Time) (int64, error) {
	res := r.db.Model(&model.ConsentRequest{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", model.ConsentPending, now).
		Update("status", model.ConsentExpired)
	return res.RowsAffected, res.Error
}

func (r *ConsentRepository) ListByBusiness(businessID int64, status string, page, pageSize int) ([]model.ConsentRequest, int64, error) {
	return r.list("business_id = ?", businessID, status, page, pageSize)
}

func (r *ConsentRepository) ListByModel(modelID int64, status string, page, pageSize int) ([]model.ConsentRequest, int64, error) {
	return r.list("model_id = ?", modelID, status, page, pageSize)
}

func (r *ConsentRepository) list(partyCond string, partyID int64, status string, page, pageSize int) ([]model.ConsentRequest, int64, error) {
	var reqs []model.ConsentRequest
	var total int64

	query := r.db.Model(&model.ConsentRequest{}).Where(partyCond, partyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("requested_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&reqs).Error
	return reqs, total, err
}

// HasApproved reports whether the business holds a live APPROVED grant for
// the model.
func (r *ConsentRepository) HasApproved(businessID, modelID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.ConsentRequest{}).
		Where("business_id = ? AND model_id = ? AND status = ?", businessID, modelID, model.ConsentApproved).
		Count(&count).Error
	return count > 0, err
}
