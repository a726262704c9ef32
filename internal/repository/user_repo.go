package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByExternalID(externalID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("external_id = ?", externalID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByCustomerID(provider, customerID string) (*model.User, error) {
	var user model.User
	column := "stripe_customer_id"
	if provider == model.ProviderLemonSqueezy {
		column = "lemonsqueezy_customer_id"
	}
	err := r.db.Where(column+" = ?", customerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// SetRole assigns the onboarding role only if none is set yet. Returns the
// number of rows changed; 0 means the role was already decided.
func (r *UserRepository) SetRole(id int64, role string) (int64, error) {
	res := r.db.Model(&model.User{}).
		Where("id = ? AND role IS NULL", id).
		Update("role", role)
	return res.RowsAffected, res.Error
}

// ConsumeCredits atomically deducts amount if the balance covers it. The
// balance guard runs inside the UPDATE so concurrent submissions cannot drive
// credits negative. Returns the number of rows changed (0 = insufficient).
func (r *UserRepository) ConsumeCredits(id int64, amount int) (int64, error) {
	res := r.db.Model(&model.User{}).
		Where("id = ? AND credits >= ?", id, amount).
		Update("credits", gorm.Expr("credits - ?", amount))
	return res.RowsAffected, res.Error
}

// AddCredits credits the balance unconditionally (refunds, renewals, admin).
func (r *UserRepository) AddCredits(id int64, amount int) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("credits", gorm.Expr("credits + ?", amount)).Error
}

// SetPlan overwrites the plan snapshot and resets the balance to the plan
// allotment, as stated by a provider webhook or reconciliation pull.
func (r *UserRepository) SetPlan(id int64, planID, planName string, price float64, premium bool, credits int, renewAt *time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"plan_id":          planID,
		"plan_name":        planName,
		"plan_price":       price,
		"plan_premium":     premium,
		"credits":          credits,
		"credits_renew_at": renewAt,
	}).Error
}

// ListRenewalDue returns paid-plan users whose credit period has lapsed.
func (r *UserRepository) ListRenewalDue(now time.Time) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("plan_id <> ? AND credits_renew_at IS NOT NULL AND credits_renew_at <= ?", "free", now).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) List(page, pageSize int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error
	return users, total, err
}
