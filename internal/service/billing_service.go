package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/payment"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
)

var (
	ErrUnknownPlan     = errors.New("unknown plan")
	ErrUnknownProvider = errors.New("unknown payment provider")
	ErrNoSubscription  = errors.New("no provider subscription on file")
	ErrUpstream        = errors.New("payment provider error")
)

// BillingService persists the payment providers' stated outcomes. Plan
// change effects (allotment reset, proration) are computed by the provider,
// never locally.
type BillingService struct {
	userRepo    *repository.UserRepository
	paymentRepo *repository.PaymentRepository
	providers   map[string]payment.Provider
	cfg         *config.Config
}

func NewBillingService(
	userRepo *repository.UserRepository,
	paymentRepo *repository.PaymentRepository,
	providers map[string]payment.Provider,
	cfg *config.Config,
) *BillingService {
	return &BillingService{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		providers:   providers,
		cfg:         cfg,
	}
}

// GetBilling returns the user's plan snapshot and balance.
func (s *BillingService) GetBilling(userID int64) (*dto.BillingInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	info := &dto.BillingInfo{
		Plan: dto.PlanInfo{
			ID:      user.PlanID,
			Name:    user.PlanName,
			Price:   user.PlanPrice,
			Premium: user.PlanPremium,
		},
		Credits: user.Credits,
	}
	if plan, ok := s.cfg.Plans[user.PlanID]; ok {
		info.Plan.MonthlyCredits = plan.MonthlyCredits
	}
	if user.CreditsRenewAt != nil {
		info.RenewsAt = user.CreditsRenewAt.Format(time.RFC3339)
	}

	return info, nil
}

// ListPlans returns the purchasable catalog.
func (s *BillingService) ListPlans() []dto.PlanInfo {
	plans := make([]dto.PlanInfo, 0, len(s.cfg.Plans))
	for id, p := range s.cfg.Plans {
		plans = append(plans, dto.PlanInfo{
			ID:             id,
			Name:           p.Name,
			Price:          p.Price,
			MonthlyCredits: p.MonthlyCredits,
			Premium:        p.Premium,
		})
	}
	return plans
}

// Checkout creates a provider-hosted checkout session for a plan.
func (s *BillingService) Checkout(ctx context.Context, userID int64, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	provider, ok := s.providers[req.Provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	plan, ok := s.cfg.Plans[req.PlanID]
	if !ok || req.PlanID == "free" {
		return nil, ErrUnknownPlan
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	params := payment.CheckoutParams{
		CustomerEmail: user.Email,
		CustomerID:    s.customerID(user, req.Provider),
		PlanID:        s.providerPlanID(plan, req.Provider),
		SuccessURL:    s.cfg.Payment.SuccessURL,
		CancelURL:     s.cfg.Payment.CancelURL,
		Reference:     strconv.FormatInt(user.ID, 10),
	}
	if params.PlanID == "" {
		return nil, ErrUnknownPlan
	}

	url, err := provider.CreateCheckout(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return &dto.CheckoutResponse{CheckoutURL: url}, nil
}

// HandleWebhook verifies and applies one provider webhook. Unhandled event
// kinds are acknowledged without effect; a bad signature is an error.
func (s *BillingService) HandleWebhook(providerName string, payload []byte, signatureHeader string) error {
	provider, ok := s.providers[providerName]
	if !ok {
		return ErrUnknownProvider
	}

	if err := provider.VerifyWebhook(payload, signatureHeader); err != nil {
		return err
	}

	event, err := provider.ParseWebhook(payload)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownEvent) {
			return nil
		}
		return err
	}

	user, err := s.resolveUser(providerName, event)
	if err != nil {
		return err
	}

	// remember the provider's customer handle from the first webhook
	if s.customerID(user, providerName) == "" && event.CustomerID != "" {
		if err := s.storeCustomerID(user, providerName, event.CustomerID); err != nil {
			return err
		}
	}

	switch event.Type {
	case payment.EventPaymentSucceeded:
		planID, plan, ok := s.planByProviderID(providerName, event.PlanID)
		if !ok {
			return fmt.Errorf("webhook names unknown plan %q", event.PlanID)
		}
		if err := s.applyPlan(user.ID, planID, plan, event.PeriodEnd); err != nil {
			return err
		}

		created, err := s.paymentRepo.CreatePayment(&model.PaymentRecord{
			UserID:        user.ID,
			Provider:      providerName,
			ProviderTxnID: event.TxnID,
			PlanID:        planID,
			Amount:        event.Amount,
			Currency:      event.Currency,
			PaidAt:        event.PaidAt,
		})
		if err != nil {
			return err
		}
		if !created {
			log.Printf("Webhook replay ignored: %s txn %s", providerName, event.TxnID)
		}
		return nil

	case payment.EventSubscriptionUpdated:
		planID, plan, ok := s.planByProviderID(providerName, event.PlanID)
		if !ok {
			return fmt.Errorf("webhook names unknown plan %q", event.PlanID)
		}
		return s.applyPlan(user.ID, planID, plan, event.PeriodEnd)

	case payment.EventSubscriptionCanceled:
		return s.applyFree(user.ID)
	}

	return nil
}

// RefreshFromProvider reconciles the local plan snapshot against the
// provider's current subscription state.
func (s *BillingService) RefreshFromProvider(ctx context.Context, userID int64) (*dto.BillingInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	providerName := ""
	customerID := ""
	switch {
	case user.StripeCustomerID != nil && *user.StripeCustomerID != "":
		providerName, customerID = model.ProviderStripe, *user.StripeCustomerID
	case user.LemonSqueezyCustomerID != nil && *user.LemonSqueezyCustomerID != "":
		providerName, customerID = model.ProviderLemonSqueezy, *user.LemonSqueezyCustomerID
	default:
		return nil, ErrNoSubscription
	}

	provider := s.providers[providerName]
	state, err := provider.FetchSubscription(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if !state.Active {
		if err := s.applyFree(user.ID); err != nil {
			return nil, err
		}
		return s.GetBilling(userID)
	}

	planID, plan, ok := s.planByProviderID(providerName, state.PlanID)
	if !ok {
		return nil, fmt.Errorf("provider reports unknown plan %q", state.PlanID)
	}
	if err := s.applyPlan(user.ID, planID, plan, state.PeriodEnd); err != nil {
		return nil, err
	}

	return s.GetBilling(userID)
}

// ListPayments returns the user's settled payments, newest first.
func (s *BillingService) ListPayments(userID int64, page, pageSize int) ([]dto.PaymentInfo, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	payments, total, err := s.paymentRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]dto.PaymentInfo, 0, len(payments))
	for _, p := range payments {
		infos = append(infos, dto.PaymentInfo{
			ID:       p.ID,
			Provider: p.Provider,
			PlanID:   p.PlanID,
			Amount:   p.Amount,
			Currency: p.Currency,
			PaidAt:   p.PaidAt.Format(time.RFC3339),
		})
	}
	return infos, total, nil
}

func (s *BillingService) applyPlan(userID int64, planID string, plan config.Plan, periodEnd *time.Time) error {
	renewAt := periodEnd
	if renewAt == nil {
		next := time.Now().UTC().AddDate(0, 1, 0)
		renewAt = &next
	}
	return s.userRepo.SetPlan(userID, planID, plan.Name, plan.Price, plan.Premium, plan.MonthlyCredits, renewAt)
}

func (s *BillingService) applyFree(userID int64) error {
	free := s.cfg.FreePlan()
	return s.userRepo.SetPlan(userID, "free", free.Name, free.Price, free.Premium, free.MonthlyCredits, nil)
}

// resolveUser finds the webhook's subject: by our user id echoed in the
// reference, else by the provider customer id.
func (s *BillingService) resolveUser(providerName string, event *payment.Event) (*model.User, error) {
	if event.Reference != "" {
		if id, err := strconv.ParseInt(event.Reference, 10, 64); err == nil {
			if user, err := s.userRepo.GetByID(id); err == nil {
				return user, nil
			}
		}
	}
	if event.CustomerID != "" {
		user, err := s.userRepo.GetByCustomerID(providerName, event.CustomerID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, ErrUserNotFound
}

func (s *BillingService) storeCustomerID(user *model.User, providerName, customerID string) error {
	column := "stripe_customer_id"
	if providerName == model.ProviderLemonSqueezy {
		column = "lemonsqueezy_customer_id"
	}
	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{column: customerID})
}

func (s *BillingService) customerID(user *model.User, providerName string) string {
	switch providerName {
	case model.ProviderStripe:
		if user.StripeCustomerID != nil {
			return *user.StripeCustomerID
		}
	case model.ProviderLemonSqueezy:
		if user.LemonSqueezyCustomerID != nil {
			return *user.LemonSqueezyCustomerID
		}
	}
	return ""
}

func (s *BillingService) providerPlanID(plan config.Plan, providerName string) string {
	switch providerName {
	case model.ProviderStripe:
		return plan.StripePriceID
	case model.ProviderLemonSqueezy:
		return plan.LemonSqueezyVariantID
	}
	return ""
}

// planByProviderID reverse-maps a provider price/variant id to our plan.
func (s *BillingService) planByProviderID(providerName, providerPlanID string) (string, config.Plan, bool) {
	for id, plan := range s.cfg.Plans {
		if s.providerPlanID(plan, providerName) == providerPlanID && providerPlanID != "" {
			return id, plan, true
		}
	}
	return "", config.Plan{}, false
}
