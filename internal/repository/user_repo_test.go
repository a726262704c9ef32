package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/testutil"
)

func TestUserRepository_GetByExternalID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	created := testutil.TestUser(t, db)

	found, err := repo.GetByExternalID(created.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByExternalID("nope")
	assert.Error(t, err)
}

func TestUserRepository_SetRole_Once(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	rows, err := repo.SetRole(user.ID, model.RoleBusiness)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// role is write-once
	rows, err = repo.SetRole(user.ID, model.RoleModel)
	require.NoError(t, err)
	assert.Zero(t, rows)

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Role)
	assert.Equal(t, model.RoleBusiness, *found.Role)
}

func TestUserRepository_ConsumeCredits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db, testutil.WithCredits(2))

	rows, err := repo.ConsumeCredits(user.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// balance is zero now, guard blocks further spend
	rows, err = repo.ConsumeCredits(user.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, rows)

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Zero(t, found.Credits)
}

func TestUserRepository_AddCredits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db, testutil.WithCredits(0))

	require.NoError(t, repo.AddCredits(user.ID, 5))

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Credits)
}

func TestUserRepository_SetPlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db, testutil.WithCredits(3))

	renewAt := time.Now().UTC().AddDate(0, 1, 0)
	require.NoError(t, repo.SetPlan(user.ID, "pro", "Pro", 49, true, 200, &renewAt))

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", found.PlanID)
	assert.Equal(t, "Pro", found.PlanName)
	assert.True(t, found.PlanPremium)
	assert.Equal(t, 200, found.Credits)
	require.NotNil(t, found.CreditsRenewAt)
}

func TestUserRepository_ListRenewalDue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	due := testutil.TestUser(t, db, testutil.WithPlan("pro", "Pro", &past))
	testutil.TestUser(t, db, testutil.WithPlan("pro", "Pro", &future))
	testutil.TestUser(t, db) // free plan, never due

	users, err := repo.ListRenewalDue(time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, due.ID, users[0].ID)
}

func TestUserRepository_GetByCustomerID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	customerID := "cus_123"
	require.NoError(t, repo.UpdateFields(user.ID, map[string]interface{}{"stripe_customer_id": customerID}))

	found, err := repo.GetByCustomerID(model.ProviderStripe, customerID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetByCustomerID(model.ProviderLemonSqueezy, customerID)
	assert.Error(t, err)
}
