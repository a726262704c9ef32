package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/testutil"
)

func TestConsentRepository_CreateAndGetByPair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConsentRepository(db)

	business := testutil.TestBusinessProfile(t, db, testutil.TestUser(t, db).ID)
	target := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)
	created := testutil.TestConsent(t, db, business.ID, target.ID)

	found, err := repo.GetByPair(business.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, model.ConsentPending, found.Status)
}

func TestConsentRepository_UniquePair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConsentRepository(db)

	business := testutil.TestBusinessProfile(t, db, testutil.TestUser(t, db).ID)
	target := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)
	testutil.TestConsent(t, db, business.ID, target.ID)

	err := repo.Create(&model.ConsentRequest{
		BusinessID:  business.ID,
		ModelID:     target.ID,
		Status:      model.ConsentPending,
		RequestedAt: time.Now().UTC(),
	})
	assert.Error(t, err)
}

func TestConsentRepository_Transition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConsentRepository(db)

	business := testutil.TestBusinessProfile(t, db, testutil.TestUser(t, db).ID)
	target := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)
	req := testutil.TestConsent(t, db, business.ID, target.ID)

	now := time.Now().UTC()
	rows, err := repo.Transition(req.ID, model.ConsentApproved, "granted_at", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	found, err := repo.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConsentApproved, found.Status)
	require.NotNil(t, found.GrantedAt)

	// second transition loses the compare-and-swap
	rows, err = repo.Transition(req.ID, model.ConsentRejected, "rejected_at", now)
	require.NoError(t, err)
	assert.Zero(t, rows)

	found, err = repo.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConsentApproved, found.Status)
	assert.Nil(t, found.RejectedAt)
}

func TestConsentRepository_Transition_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConsentRepository(db)

	business := testutil.TestBusinessProfile(t, db, testutil.TestUser(t, db).ID)
	target := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)
	req := testutil.TestConsent(t, db, business.ID, target.ID,
		testutil.WithConsentExpiry(time.Now().UTC().Add(-time.Hour)))

	rows, err := repo.Transition(req.ID, model.ConsentApproved, "granted_at", time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestConsentRepository_MarkExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConsentRepository(db)

	business := testutil.TestBusinessProfile(t, db, testutil.TestUser(t, db).ID)
	lapsed := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)
	live := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)

	expired := testutil.TestConsent(t, db, business.ID, lapsed.ID,
		testutil.WithConsentExpiry(time.Now().UTC().Add(-time.Hour)))
	pending := testutil.TestConsent(t, db, business.ID, live.ID,
		testutil.WithConsentExpiry(time.Now().UTC().Add(time.Hour)))

	swept, err := repo.MarkExpired(time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	found, err := repo.GetByID(expired.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConsentExpired, found.Status)

	found, err = repo.GetByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConsentPending, found.Status)
}

func TestConsentRepository_HasApproved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConsentRepository(db)

	business := testutil.TestBusinessProfile(t, db, testutil.TestUser(t, db).ID)
	target := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)
	req := testutil.TestConsent(t, db, business.ID, target.ID)

	ok, err := repo.HasApproved(business.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Transition(req.ID, model.ConsentApproved, "granted_at", time.Now().UTC())
	require.NoError(t, err)

	ok, err = repo.HasApproved(business.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConsentRepository_ListByModel_StatusFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConsentRepository(db)

	target := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)
	b1 := testutil.TestBusinessProfile(t, db, testutil.TestUser(t, db).ID)
	b2 := testutil.TestBusinessProfile(t, db, testutil.TestUser(t, db).ID)

	testutil.TestConsent(t, db, b1.ID, target.ID)
	approved := testutil.TestConsent(t, db, b2.ID, target.ID, testutil.WithConsentStatus(model.ConsentApproved))

	all, total, err := repo.ListByModel(target.ID, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	only, total, err := repo.ListByModel(target.ID, model.ConsentApproved, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, only, 1)
	assert.Equal(t, approved.ID, only[0].ID)
}
