package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/internal/api/middleware"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

type ConsentHandler struct {
	consentService *service.ConsentService
}

func NewConsentHandler(consentService *service.ConsentService) *ConsentHandler {
	return &ConsentHandler{
		consentService: consentService,
	}
}

// Create opens a consent request toward a model.
// POST /api/v1/consents
func (h *ConsentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.consentService.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateRequest):
			response.DuplicateError(c, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrConsentNotFound):
			response.NotFoundError(c, "model not found")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "request sent", info)
}

// List returns the caller's consent requests.
// GET /api/v1/consents
func (h *ConsentHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var query dto.ConsentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	items, total, err := h.consentService.List(userID, middleware.GetUserRole(c), &query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound), errors.Is(err, service.ErrNotAuthorized):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessPage(c, total, query.Page, query.PageSize, items)
}

// Approve grants a pending request.
// POST /api/v1/consents/:id/approve
func (h *ConsentHandler) Approve(c *gin.Context) {
	h.decide(c, h.consentService.Approve)
}

// Reject declines a pending request.
// POST /api/v1/consents/:id/reject
func (h *ConsentHandler) Reject(c *gin.Context) {
	h.decide(c, h.consentService.Reject)
}

func (h *ConsentHandler) decide(c *gin.Context, action func(int64, int64) (*dto.ConsentInfo, error)) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid request id")
		return
	}

	info, err := action(requestID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConsentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrNotAuthorized):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			response.TransitionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}
