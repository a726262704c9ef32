package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

// PublicHandler serves the unauthenticated marketing surface: plans, model
// browse, lead capture and the signup email check.
type PublicHandler struct {
	billingService  *service.BillingService
	profileService  *service.ProfileService
	feedbackService *service.FeedbackService
}

func NewPublicHandler(
	billingService *service.BillingService,
	profileService *service.ProfileService,
	feedbackService *service.FeedbackService,
) *PublicHandler {
	return &PublicHandler{
		billingService:  billingService,
		profileService:  profileService,
		feedbackService: feedbackService,
	}
}

// ListPlans returns the purchasable plan catalog.
// GET /api/v1/public/plans
func (h *PublicHandler) ListPlans(c *gin.Context) {
	response.Success(c, h.billingService.ListPlans())
}

// ListModels browses model cards.
// GET /api/v1/models
func (h *PublicHandler) ListModels(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.profileService.ListModels(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// CaptureLead records a marketing signup email.
// POST /api/v1/public/leads
func (h *PublicHandler) CaptureLead(c *gin.Context) {
	var req dto.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.feedbackService.CaptureLead(&req); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "you're on the list", nil)
}

// CheckDomain reports whether a domain (or an email's domain) can receive
// mail.
// GET /api/v1/public/check-domain?domain=...
func (h *PublicHandler) CheckDomain(c *gin.Context) {
	domain := c.Query("domain")
	if domain == "" {
		domain = c.Query("email")
	}
	if domain == "" {
		response.ParamError(c, "domain is required")
		return
	}

	resp, err := h.feedbackService.CheckDomain(domain)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDomain) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}
