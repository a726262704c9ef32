package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelsnapper/snapper_go_server/internal/pkg/jwt"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

func authEngine() *gin.Engine {
	engine := gin.New()
	engine.GET("/protected", Auth(testSecret), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		response.Success(c, gin.H{"user_id": userID})
	})
	engine.GET("/optional", OptionalAuth(testSecret), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		response.Success(c, gin.H{"user_id": userID, "authenticated": ok})
	})
	return engine
}

func doRequest(engine *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func responseCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

func TestAuth_ValidToken(t *testing.T) {
	engine := authEngine()

	token, err := jwt.GenerateToken(42, testSecret, 1)
	require.NoError(t, err)

	w := doRequest(engine, "/protected", "Bearer "+token)
	assert.Equal(t, response.CodeSuccess, responseCode(t, w))
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestAuth_MissingHeader(t *testing.T) {
	w := doRequest(authEngine(), "/protected", "")
	assert.Equal(t, response.CodeAuthFailed, responseCode(t, w))
}

func TestAuth_MalformedHeader(t *testing.T) {
	token, err := jwt.GenerateToken(42, testSecret, 1)
	require.NoError(t, err)

	w := doRequest(authEngine(), "/protected", token)
	assert.Equal(t, response.CodeAuthFailed, responseCode(t, w))
}

func TestAuth_BadToken(t *testing.T) {
	token, err := jwt.GenerateToken(42, "other-secret", 1)
	require.NoError(t, err)

	w := doRequest(authEngine(), "/protected", "Bearer "+token)
	assert.Equal(t, response.CodeAuthFailed, responseCode(t, w))
}

func TestOptionalAuth(t *testing.T) {
	engine := authEngine()

	// anonymous passes through
	w := doRequest(engine, "/optional", "")
	assert.Equal(t, response.CodeSuccess, responseCode(t, w))
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	// a valid token attaches the user
	token, err := jwt.GenerateToken(42, testSecret, 1)
	require.NoError(t, err)
	w = doRequest(engine, "/optional", "Bearer "+token)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)

	// a bad token is ignored, not rejected
	w = doRequest(engine, "/optional", "Bearer garbage")
	assert.Equal(t, response.CodeSuccess, responseCode(t, w))
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
