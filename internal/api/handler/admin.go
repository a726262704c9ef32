package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

type AdminHandler struct {
	userRepo        *repository.UserRepository
	creditService   *service.CreditService
	avatarService   *service.AvatarService
	feedbackService *service.FeedbackService
}

func NewAdminHandler(
	userRepo *repository.UserRepository,
	creditService *service.CreditService,
	avatarService *service.AvatarService,
	feedbackService *service.FeedbackService,
) *AdminHandler {
	return &AdminHandler{
		userRepo:        userRepo,
		creditService:   creditService,
		avatarService:   avatarService,
		feedbackService: feedbackService,
	}
}

// ListUsers pages through all accounts.
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := h.userRepo.List(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, users)
}

// AdjustCredits applies a support credit adjustment to an account.
// POST /api/v1/admin/users/:id/credits
func (h *AdminHandler) AdjustCredits(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid user id")
		return
	}

	var req dto.AdjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	balance, err := h.creditService.AdminAdjust(targetID, req.Delta, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, "")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"credits": balance})
}

// CreateAvatar adds a synthetic model to the catalog.
// POST /api/v1/admin/avatars
func (h *AdminHandler) CreateAvatar(c *gin.Context) {
	var req dto.CreateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	avatar, err := h.avatarService.Create(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "avatar created", avatar)
}

// ListFeedback pages through submitted feedback.
// GET /api/v1/admin/feedback
func (h *AdminHandler) ListFeedback(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.feedbackService.ListFeedback(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// ListLeads pages through captured leads.
// GET /api/v1/admin/leads
func (h *AdminHandler) ListLeads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.feedbackService.ListLeads(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}
