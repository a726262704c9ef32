package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/internal/api/middleware"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

type UserHandler struct {
	identityService *service.IdentityService
}

func NewUserHandler(identityService *service.IdentityService) *UserHandler {
	return &UserHandler{
		identityService: identityService,
	}
}

// GetMe returns the session user.
// GET /api/v1/user/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.identityService.GetMe(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, "")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// Onboard picks the account's role and seeds its profile.
// POST /api/v1/user/onboard
func (h *UserHandler) Onboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.identityService.Onboard(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleAlreadySet):
			response.DuplicateError(c, err.Error())
		case errors.Is(err, service.ErrMissingProfile):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "onboarding complete", info)
}

// UpdateProfile updates the user's display name.
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.identityService.UpdateProfile(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}
