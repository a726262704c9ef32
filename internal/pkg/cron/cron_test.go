package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
	"github.com/modelsnapper/snapper_go_server/internal/service"
	"github.com/modelsnapper/snapper_go_server/internal/testutil"
)

func setupCron(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		Consent: config.ConsentConfig{ExpireDays: 30},
		Plans: map[string]config.Plan{
			"free": {Name: "Free", MonthlyCredits: 10},
			"pro":  {Name: "Pro", Price: 49, MonthlyCredits: 200},
		},
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	consentService := service.NewConsentService(
		repository.NewConsentRepository(db), profileRepo, userRepo, nil, cfg)
	creditService := service.NewCreditService(
		userRepo, repository.NewPaymentRepository(db), cfg)

	return NewService(consentService, creditService), db
}

func TestService_RunNow(t *testing.T) {
	cronService, db := setupCron(t)

	businessUser := testutil.TestUser(t, db, testutil.WithRole(model.RoleBusiness))
	business := testutil.TestBusinessProfile(t, db, businessUser.ID)
	target := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)

	lapsed := testutil.TestConsent(t, db, business.ID, target.ID,
		testutil.WithConsentExpiry(time.Now().UTC().Add(-time.Hour)))

	past := time.Now().UTC().Add(-time.Hour)
	due := testutil.TestUser(t, db,
		testutil.WithPlan("pro", "Pro", &past),
		testutil.WithCredits(3))

	cronService.RunNow()

	var sweptConsent model.ConsentRequest
	require.NoError(t, db.First(&sweptConsent, lapsed.ID).Error)
	assert.Equal(t, model.ConsentExpired, sweptConsent.Status)

	var renewed model.User
	require.NoError(t, db.First(&renewed, due.ID).Error)
	assert.Equal(t, 200, renewed.Credits)
	require.NotNil(t, renewed.CreditsRenewAt)
	assert.True(t, renewed.CreditsRenewAt.After(time.Now().UTC()))
}

func TestService_StartStop(t *testing.T) {
	cronService, _ := setupCron(t)

	cronService.Start()
	cronService.Stop()
}
