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

type BillingHandler struct {
	billingService *service.BillingService
}

func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// GetBilling returns the caller's plan and credit balance.
// GET /api/v1/billing
func (h *BillingHandler) GetBilling(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.billingService.GetBilling(userID)
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

// Checkout creates a provider-hosted checkout session.
// POST /api/v1/billing/checkout
func (h *BillingHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.billingService.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPlan), errors.Is(err, service.ErrUnknownProvider):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUpstream):
			response.UpstreamError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// Refresh reconciles the plan snapshot against the payment provider.
// POST /api/v1/billing/refresh
func (h *BillingHandler) Refresh(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.billingService.RefreshFromProvider(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSubscription):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrUpstream):
			response.UpstreamError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// ListPayments returns the caller's settled payments.
// GET /api/v1/billing/payments
func (h *BillingHandler) ListPayments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.billingService.ListPayments(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}
