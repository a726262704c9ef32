package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

// CreditService owns the balance. Consumption goes through an atomic
// balance-guarded update so concurrent spends can never go negative; every
// change lands in the credit_transactions ledger.
type CreditService struct {
	userRepo    *repository.UserRepository
	paymentRepo *repository.PaymentRepository
	cfg         *config.Config
}

func NewCreditService(userRepo *repository.UserRepository, paymentRepo *repository.PaymentRepository, cfg *config.Config) *CreditService {
	return &CreditService{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		cfg:         cfg,
	}
}

// GetBalance returns the user's current credit balance.
func (s *CreditService) GetBalance(userID int64) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}
	return user.Credits, nil
}

// Consume deducts amount, failing with ErrInsufficientCredits (balance
// untouched) when it would go negative. Returns the new balance.
func (s *CreditService) Consume(userID int64, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, errors.New("consume amount must be positive")
	}

	rows, err := s.userRepo.ConsumeCredits(userID, amount)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		if _, err := s.userRepo.GetByID(userID); errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, ErrInsufficientCredits
	}

	return s.record(userID, -amount, reason)
}

// Refund returns previously consumed credits (failed render).
func (s *CreditService) Refund(userID int64, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, errors.New("refund amount must be positive")
	}
	if err := s.userRepo.AddCredits(userID, amount); err != nil {
		return 0, err
	}
	return s.record(userID, amount, reason)
}

// AdminAdjust applies an administrative delta. Unlike Consume it bypasses
// the balance guard, per the support workflow.
func (s *CreditService) AdminAdjust(userID int64, delta int, reason string) (int, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	if err := s.userRepo.AddCredits(userID, delta); err != nil {
		return 0, err
	}
	return s.record(userID, delta, model.CreditReasonAdmin+": "+reason)
}

// RenewDuePlans resets the balance to the plan allotment for every paid
// user whose period has lapsed, and advances the renewal date a month.
// Returns how many users were refreshed.
func (s *CreditService) RenewDuePlans() (int, error) {
	now := time.Now().UTC()
	users, err := s.userRepo.ListRenewalDue(now)
	if err != nil {
		return 0, err
	}

	renewed := 0
	for i := range users {
		user := &users[i]
		plan, ok := s.cfg.Plans[user.PlanID]
		if !ok {
			log.Printf("Renewal skipped for user %d: unknown plan %s", user.ID, user.PlanID)
			continue
		}

		next := user.CreditsRenewAt.AddDate(0, 1, 0)
		err := s.userRepo.SetPlan(user.ID, user.PlanID, plan.Name, plan.Price, plan.Premium, plan.MonthlyCredits, &next)
		if err != nil {
			log.Printf("Renewal failed for user %d: %v", user.ID, err)
			continue
		}
		if _, err := s.record(user.ID, plan.MonthlyCredits-user.Credits, model.CreditReasonPlanRenewal); err != nil {
			log.Printf("Renewal ledger write failed for user %d: %v", user.ID, err)
		}
		renewed++
	}

	return renewed, nil
}

// record appends a ledger row holding the delta and resulting balance.
func (s *CreditService) record(userID int64, delta int, reason string) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}

	tx := &model.CreditTransaction{
		UserID:       userID,
		Delta:        delta,
		BalanceAfter: user.Credits,
		Reason:       reason,
	}
	if err := s.paymentRepo.CreateTransaction(tx); err != nil {
		return user.Credits, err
	}

	return user.Credits, nil
}
