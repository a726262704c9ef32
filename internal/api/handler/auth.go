package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

type AuthHandler struct {
	identityService *service.IdentityService
}

func NewAuthHandler(identityService *service.IdentityService) *AuthHandler {
	return &AuthHandler{
		identityService: identityService,
	}
}

// Login returns the identity provider's hosted sign-in URL.
// GET /api/v1/auth/login?redirect_uri=...
func (h *AuthHandler) Login(c *gin.Context) {
	resp, err := h.identityService.LoginURL(c.Request.Context(), c.Query("redirect_uri"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// Callback finishes the provider code flow. When the login carried a
// frontend redirect the browser is sent back there with the session token;
// otherwise the token is returned as JSON.
// GET /api/v1/auth/callback?code=...&state=...
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		response.ParamError(c, "code and state are required")
		return
	}

	resp, redirectURI, err := h.identityService.HandleCallback(c.Request.Context(), code, state)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailUnverified):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrIdentityExchange):
			response.AuthError(c, "sign-in failed, please try again")
		default:
			response.ServerError(c, "")
		}
		return
	}

	if redirectURI != "" {
		c.Redirect(http.StatusFound, redirectURI+"#token="+url.QueryEscape(resp.Token))
		return
	}

	response.Success(c, resp)
}
