package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/payment"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

// WebhookHandler terminates payment provider callbacks. Responses use plain
// HTTP status codes, not the API envelope, because the providers are the
// callers.
type WebhookHandler struct {
	billingService *service.BillingService
}

func NewWebhookHandler(billingService *service.BillingService) *WebhookHandler {
	return &WebhookHandler{
		billingService: billingService,
	}
}

// Handle verifies and applies one webhook delivery.
// POST /webhooks/:provider
func (h *WebhookHandler) Handle(c *gin.Context) {
	providerName := c.Param("provider")

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if providerName == model.ProviderLemonSqueezy {
		signature = c.GetHeader("X-Signature")
	}

	if err := h.billingService.HandleWebhook(providerName, payload, signature); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownProvider):
			c.Status(http.StatusNotFound)
		case errors.Is(err, payment.ErrBadSignature):
			c.Status(http.StatusUnauthorized)
		case errors.Is(err, service.ErrUserNotFound):
			// unknown subject; acknowledge so the provider stops retrying
			log.Printf("Webhook from %s for unknown user, dropped", providerName)
			c.Status(http.StatusOK)
		default:
			log.Printf("Webhook from %s failed: %v", providerName, err)
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}
