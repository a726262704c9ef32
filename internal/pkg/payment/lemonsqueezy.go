package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
)

const lemonDefaultBaseURL = "https://api.lemonsqueezy.com"

// LemonSqueezy talks to the Lemon Squeezy JSON:API. Webhooks carry a hex
// HMAC-SHA256 of the raw body in X-Signature.
type LemonSqueezy struct {
	apiKey        string
	storeID       string
	signingSecret string
	baseURL       string
	httpClient    *http.Client
}

func NewLemonSqueezy(cfg *config.LemonSqueezyConfig) *LemonSqueezy {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = lemonDefaultBaseURL
	}
	return &LemonSqueezy{
		apiKey:        cfg.APIKey,
		storeID:       cfg.StoreID,
		signingSecret: cfg.SigningSecret,
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (l *LemonSqueezy) Name() string {
	return model.ProviderLemonSqueezy
}

func (l *LemonSqueezy) CreateCheckout(ctx context.Context, params CheckoutParams) (string, error) {
	body := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "checkouts",
			"attributes": map[string]interface{}{
				"checkout_data": map[string]interface{}{
					"email": params.CustomerEmail,
					"custom": map[string]string{
						"reference": params.Reference,
					},
				},
				"product_options": map[string]interface{}{
					"redirect_url": params.SuccessURL,
				},
			},
			"relationships": map[string]interface{}{
				"store": map[string]interface{}{
					"data": map[string]string{"type": "stores", "id": l.storeID},
				},
				"variant": map[string]interface{}{
					"data": map[string]string{"type": "variants", "id": params.PlanID},
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		l.baseURL+"/v1/checkouts", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+l.apiKey)
	req.Header.Set("Content-Type", "application/vnd.api+json")
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lemonsqueezy checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("lemonsqueezy checkout returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data struct {
			Attributes struct {
				URL string `json:"url"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode checkout: %w", err)
	}

	return result.Data.Attributes.URL, nil
}

func (l *LemonSqueezy) VerifyWebhook(payload []byte, signatureHeader string) error {
	if signatureHeader == "" || !verifyHex(l.signingSecret, payload, signatureHeader) {
		return ErrBadSignature
	}
	return nil
}

type lemonWebhookPayload struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			Reference string `json:"reference"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			CustomerID int64      `json:"customer_id"`
			VariantID  int64      `json:"variant_id"`
			Total      int64      `json:"total"`
			Currency   string     `json:"currency"`
			Status     string     `json:"status"`
			CreatedAt  time.Time  `json:"created_at"`
			RenewsAt   *time.Time `json:"renews_at"`
		} `json:"attributes"`
	} `json:"data"`
}

func (l *LemonSqueezy) ParseWebhook(payload []byte) (*Event, error) {
	var p lemonWebhookPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}

	attrs := p.Data.Attributes
	event := &Event{
		CustomerID: fmt.Sprintf("%d", attrs.CustomerID),
		Reference:  p.Meta.CustomData.Reference,
		PlanID:     fmt.Sprintf("%d", attrs.VariantID),
		TxnID:      p.Data.ID,
		Amount:     float64(attrs.Total) / 100,
		Currency:   attrs.Currency,
		PaidAt:     attrs.CreatedAt,
		PeriodEnd:  attrs.RenewsAt,
	}

	switch p.Meta.EventName {
	case "order_created":
		event.Type = EventPaymentSucceeded
	case "subscription_updated":
		event.Type = EventSubscriptionUpdated
	case "subscription_cancelled", "subscription_expired":
		event.Type = EventSubscriptionCanceled
	default:
		return nil, ErrUnknownEvent
	}

	return event, nil
}

func (l *LemonSqueezy) FetchSubscription(ctx context.Context, customerID string) (*SubscriptionState, error) {
	endpoint := fmt.Sprintf("%s/v1/subscriptions?filter[customer_id]=%s", l.baseURL, customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+l.apiKey)
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lemonsqueezy subscription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("lemonsqueezy subscriptions returned %d: %s", resp.StatusCode, string(body))
	}

	var list struct {
		Data []struct {
			Attributes struct {
				VariantID int64      `json:"variant_id"`
				Status    string     `json:"status"`
				RenewsAt  *time.Time `json:"renews_at"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}

	if len(list.Data) == 0 {
		return &SubscriptionState{Active: false}, nil
	}

	sub := list.Data[0].Attributes
	return &SubscriptionState{
		PlanID:    fmt.Sprintf("%d", sub.VariantID),
		Active:    sub.Status == "active" || sub.Status == "on_trial",
		PeriodEnd: sub.RenewsAt,
	}, nil
}
