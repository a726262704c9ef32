package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
	"github.com/modelsnapper/snapper_go_server/internal/service"
	"github.com/modelsnapper/snapper_go_server/internal/testutil"
)

func setupConsentHandler(t *testing.T) (*ConsentHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		Consent: config.ConsentConfig{ExpireDays: 30},
	}
	consentService := service.NewConsentService(
		repository.NewConsentRepository(db),
		repository.NewProfileRepository(db),
		repository.NewUserRepository(db),
		nil, cfg,
	)
	return NewConsentHandler(consentService), db
}

func TestConsentHandler_CreateAndApprove(t *testing.T) {
	h, db := setupConsentHandler(t)

	businessUser := testutil.TestUser(t, db, testutil.WithRole(model.RoleBusiness))
	testutil.TestBusinessProfile(t, db, businessUser.ID)
	modelUser := testutil.TestUser(t, db, testutil.WithRole(model.RoleModel))
	target := testutil.TestModelProfile(t, db, modelUser.ID)

	engine := gin.New()
	engine.POST("/consents", mockAuth(businessUser.ID), h.Create)
	engine.POST("/consents/:id/approve", mockAuth(modelUser.ID), h.Approve)

	w := performRequest(engine, http.MethodPost, "/consents",
		gin.H{"model_id": target.ID, "message": "campaign shoot"})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var created dto.ConsentInfo
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, model.ConsentPending, created.Status)

	w = performRequest(engine, http.MethodPost,
		"/consents/"+strconv.FormatInt(created.ID, 10)+"/approve", nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var approved dto.ConsentInfo
	require.NoError(t, json.Unmarshal(resp.Data, &approved))
	assert.Equal(t, model.ConsentApproved, approved.Status)
	assert.NotEmpty(t, approved.GrantedAt)
}

func TestConsentHandler_Create_Duplicate(t *testing.T) {
	h, db := setupConsentHandler(t)

	businessUser := testutil.TestUser(t, db, testutil.WithRole(model.RoleBusiness))
	testutil.TestBusinessProfile(t, db, businessUser.ID)
	target := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)

	engine := gin.New()
	engine.POST("/consents", mockAuth(businessUser.ID), h.Create)

	body := gin.H{"model_id": target.ID}
	resp := parseResponse(t, performRequest(engine, http.MethodPost, "/consents", body))
	require.Equal(t, response.CodeSuccess, resp.Code)

	resp = parseResponse(t, performRequest(engine, http.MethodPost, "/consents", body))
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
}

func TestConsentHandler_Create_BadRequest(t *testing.T) {
	h, db := setupConsentHandler(t)

	businessUser := testutil.TestUser(t, db, testutil.WithRole(model.RoleBusiness))
	testutil.TestBusinessProfile(t, db, businessUser.ID)

	engine := gin.New()
	engine.POST("/consents", mockAuth(businessUser.ID), h.Create)

	// model_id is required
	resp := parseResponse(t, performRequest(engine, http.MethodPost, "/consents", gin.H{"message": "hi"}))
	assert.Equal(t, response.CodeParamError, resp.Code)

	// unknown model profile
	resp = parseResponse(t, performRequest(engine, http.MethodPost, "/consents", gin.H{"model_id": 99999}))
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestConsentHandler_Approve_WrongActor(t *testing.T) {
	h, db := setupConsentHandler(t)

	businessUser := testutil.TestUser(t, db, testutil.WithRole(model.RoleBusiness))
	business := testutil.TestBusinessProfile(t, db, businessUser.ID)
	modelUser := testutil.TestUser(t, db, testutil.WithRole(model.RoleModel))
	target := testutil.TestModelProfile(t, db, modelUser.ID)
	intruder := testutil.TestUser(t, db, testutil.WithRole(model.RoleModel))
	testutil.TestModelProfile(t, db, intruder.ID)

	req := testutil.TestConsent(t, db, business.ID, target.ID)

	engine := gin.New()
	engine.POST("/consents/:id/approve", mockAuth(intruder.ID), h.Approve)

	w := performRequest(engine, http.MethodPost,
		"/consents/"+strconv.FormatInt(req.ID, 10)+"/approve", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestConsentHandler_Decide_BadID(t *testing.T) {
	h, db := setupConsentHandler(t)
	user := testutil.TestUser(t, db)

	engine := gin.New()
	engine.POST("/consents/:id/reject", mockAuth(user.ID), h.Reject)

	resp := parseResponse(t, performRequest(engine, http.MethodPost, "/consents/abc/reject", nil))
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestConsentHandler_List(t *testing.T) {
	h, db := setupConsentHandler(t)

	businessUser := testutil.TestUser(t, db, testutil.WithRole(model.RoleBusiness))
	business := testutil.TestBusinessProfile(t, db, businessUser.ID)
	target := testutil.TestModelProfile(t, db, testutil.TestUser(t, db).ID)
	testutil.TestConsent(t, db, business.ID, target.ID)

	engine := gin.New()
	engine.GET("/consents", mockAuth(businessUser.ID), mockRole(model.RoleBusiness), h.List)

	resp := parseResponse(t, performRequest(engine, http.MethodGet, "/consents", nil))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var page response.PageData
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(1), page.Total)
}
