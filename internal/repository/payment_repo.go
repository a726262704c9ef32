package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/modelsnapper/snapper_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePayment inserts a settled payment. Replayed webhooks hit the
// (provider, provider_txn_id) unique index and are dropped silently.
func (r *PaymentRepository) CreatePayment(p *model.PaymentRecord) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(p)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentRepository) ListByUser(userID int64, page, pageSize int) ([]model.PaymentRecord, int64, error) {
	var payments []model.PaymentRecord
	var total int64

	query := r.db.Model(&model.PaymentRecord{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("paid_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&payments).Error
	return payments, total, err
}

func (r *PaymentRepository) CreateTransaction(tx *model.CreditTransaction) error {
	return r.db.Create(tx).Error
}

func (r *PaymentRepository) ListTransactionsByUser(userID int64, page, pageSize int) ([]model.CreditTransaction, int64, error) {
	var txs []model.CreditTransaction
	var total int64

	query := r.db.Model(&model.CreditTransaction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&txs).Error
	return txs, total, err
}
