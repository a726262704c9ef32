package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/payment"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
	"github.com/modelsnapper/snapper_go_server/internal/testutil"
)

// fakeProvider scripts webhook verification and parsing for billing tests.
type fakeProvider struct {
	name        string
	verifyErr   error
	event       *payment.Event
	parseErr    error
	state       *payment.SubscriptionState
	checkoutURL string
	lastParams  payment.CheckoutParams
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) CreateCheckout(ctx context.Context, params payment.CheckoutParams) (string, error) {
	f.lastParams = params
	return f.checkoutURL, nil
}

func (f *fakeProvider) VerifyWebhook(payload []byte, signatureHeader string) error {
	return f.verifyErr
}

func (f *fakeProvider) ParseWebhook(payload []byte) (*payment.Event, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.event, nil
}

func (f *fakeProvider) FetchSubscription(ctx context.Context, customerID string) (*payment.SubscriptionState, error) {
	return f.state, nil
}

func billingTestConfig() *config.Config {
	return &config.Config{
		Plans: map[string]config.Plan{
			"free": {Name: "Free", MonthlyCredits: 10},
			"pro": {
				Name: "Pro", Price: 49, MonthlyCredits: 200, Premium: true,
				StripePriceID:         "price_pro",
				LemonSqueezyVariantID: "variant_pro",
			},
		},
		Payment: config.PaymentConfig{
			SuccessURL: "https://app.example.com/billing/success",
			CancelURL:  "https://app.example.com/billing",
		},
	}
}

func setupBillingService(t *testing.T, stripe *fakeProvider) (*BillingService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	providers := map[string]payment.Provider{
		model.ProviderStripe: stripe,
	}

	service := NewBillingService(userRepo, paymentRepo, providers, billingTestConfig())
	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return service, db, cleanup
}

func TestBillingService_Checkout(t *testing.T) {
	stripe := &fakeProvider{name: model.ProviderStripe, checkoutURL: "https://checkout.stripe.com/s/abc"}
	service, db, cleanup := setupBillingService(t, stripe)
	defer cleanup()

	user := testutil.TestUser(t, db)

	resp, err := service.Checkout(context.Background(), user.ID, &dto.CheckoutRequest{
		Provider: model.ProviderStripe,
		PlanID:   "pro",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/s/abc", resp.CheckoutURL)
	assert.Equal(t, "price_pro", stripe.lastParams.PlanID)
	assert.Equal(t, strconv.FormatInt(user.ID, 10), stripe.lastParams.Reference)
	assert.Equal(t, user.Email, stripe.lastParams.CustomerEmail)
}

func TestBillingService_Checkout_BadInput(t *testing.T) {
	stripe := &fakeProvider{name: model.ProviderStripe}
	service, db, cleanup := setupBillingService(t, stripe)
	defer cleanup()

	user := testutil.TestUser(t, db)

	_, err := service.Checkout(context.Background(), user.ID, &dto.CheckoutRequest{Provider: "paypal", PlanID: "pro"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = service.Checkout(context.Background(), user.ID, &dto.CheckoutRequest{Provider: model.ProviderStripe, PlanID: "enterprise"})
	assert.ErrorIs(t, err, ErrUnknownPlan)

	// the free tier is not purchasable
	_, err = service.Checkout(context.Background(), user.ID, &dto.CheckoutRequest{Provider: model.ProviderStripe, PlanID: "free"})
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestBillingService_HandleWebhook_PaymentSucceeded(t *testing.T) {
	stripe := &fakeProvider{name: model.ProviderStripe}
	service, db, cleanup := setupBillingService(t, stripe)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithCredits(3))

	stripe.event = &payment.Event{
		Type:       payment.EventPaymentSucceeded,
		CustomerID: "cus_42",
		Reference:  strconv.FormatInt(user.ID, 10),
		PlanID:     "price_pro",
		TxnID:      "txn_1",
		Amount:     49,
		Currency:   "usd",
		PaidAt:     time.Now().UTC(),
	}

	require.NoError(t, service.HandleWebhook(model.ProviderStripe, []byte("{}"), "sig"))

	var found model.User
	require.NoError(t, db.First(&found, user.ID).Error)
	assert.Equal(t, "pro", found.PlanID)
	assert.True(t, found.PlanPremium)
	assert.Equal(t, 200, found.Credits)
	require.NotNil(t, found.StripeCustomerID)
	assert.Equal(t, "cus_42", *found.StripeCustomerID)

	var count int64
	db.Model(&model.PaymentRecord{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBillingService_HandleWebhook_Replay(t *testing.T) {
	stripe := &fakeProvider{name: model.ProviderStripe}
	service, db, cleanup := setupBillingService(t, stripe)
	defer cleanup()

	user := testutil.TestUser(t, db)

	stripe.event = &payment.Event{
		Type:      payment.EventPaymentSucceeded,
		Reference: strconv.FormatInt(user.ID, 10),
		PlanID:    "price_pro",
		TxnID:     "txn_dup",
		PaidAt:    time.Now().UTC(),
	}

	require.NoError(t, service.HandleWebhook(model.ProviderStripe, []byte("{}"), "sig"))
	require.NoError(t, service.HandleWebhook(model.ProviderStripe, []byte("{}"), "sig"))

	// the unique txn index swallows the duplicate delivery
	var count int64
	db.Model(&model.PaymentRecord{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBillingService_HandleWebhook_BadSignature(t *testing.T) {
	stripe := &fakeProvider{name: model.ProviderStripe, verifyErr: payment.ErrBadSignature}
	service, _, cleanup := setupBillingService(t, stripe)
	defer cleanup()

	err := service.HandleWebhook(model.ProviderStripe, []byte("{}"), "bad")
	assert.ErrorIs(t, err, payment.ErrBadSignature)
}

func TestBillingService_HandleWebhook_UnknownEventIgnored(t *testing.T) {
	stripe := &fakeProvider{name: model.ProviderStripe, parseErr: payment.ErrUnknownEvent}
	service, _, cleanup := setupBillingService(t, stripe)
	defer cleanup()

	assert.NoError(t, service.HandleWebhook(model.ProviderStripe, []byte("{}"), "sig"))
}

func TestBillingService_HandleWebhook_SubscriptionCanceled(t *testing.T) {
	stripe := &fakeProvider{name: model.ProviderStripe}
	service, db, cleanup := setupBillingService(t, stripe)
	defer cleanup()

	customerID := "cus_77"
	user := testutil.TestUser(t, db)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("stripe_customer_id", customerID).Error)
	renewAt := time.Now().UTC()
	userRepo := repository.NewUserRepository(db)
	require.NoError(t, userRepo.SetPlan(user.ID, "pro", "Pro", 49, true, 200, &renewAt))

	stripe.event = &payment.Event{
		Type:       payment.EventSubscriptionCanceled,
		CustomerID: customerID,
	}

	require.NoError(t, service.HandleWebhook(model.ProviderStripe, []byte("{}"), "sig"))

	var found model.User
	require.NoError(t, db.First(&found, user.ID).Error)
	assert.Equal(t, "free", found.PlanID)
	assert.False(t, found.PlanPremium)
	assert.Equal(t, 10, found.Credits)
}

func TestBillingService_RefreshFromProvider(t *testing.T) {
	stripe := &fakeProvider{name: model.ProviderStripe}
	service, db, cleanup := setupBillingService(t, stripe)
	defer cleanup()

	user := testutil.TestUser(t, db)

	_, err := service.RefreshFromProvider(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrNoSubscription)

	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("stripe_customer_id", "cus_9").Error)

	periodEnd := time.Now().UTC().AddDate(0, 1, 0)
	stripe.state = &payment.SubscriptionState{PlanID: "price_pro", Active: true, PeriodEnd: &periodEnd}

	info, err := service.RefreshFromProvider(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", info.Plan.ID)
	assert.Equal(t, 200, info.Credits)
}
