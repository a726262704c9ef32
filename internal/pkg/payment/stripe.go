package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
)

const stripeDefaultBaseURL = "https://api.stripe.com"

// Stripe talks to the Stripe REST API directly (form-encoded requests,
// secret-key bearer auth). Only the endpoints billing needs are covered.
type Stripe struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

func NewStripe(cfg *config.StripeConfig) *Stripe {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = stripeDefaultBaseURL
	}
	return &Stripe{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *Stripe) Name() string {
	return model.ProviderStripe
}

// CreateCheckout creates a hosted checkout session and returns its URL.
func (s *Stripe) CreateCheckout(ctx context.Context, params CheckoutParams) (string, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("client_reference_id", params.Reference)
	form.Set("line_items[0][price]", params.PlanID)
	form.Set("line_items[0][quantity]", "1")
	if params.CustomerID != "" {
		form.Set("customer", params.CustomerID)
	} else if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("stripe checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("stripe checkout returned %d: %s", resp.StatusCode, string(body))
	}

	var session struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("failed to decode checkout session: %w", err)
	}

	return session.URL, nil
}

// VerifyWebhook checks the Stripe-Signature header: HMAC-SHA256 over
// "<timestamp>.<payload>" keyed with the endpoint secret.
func (s *Stripe) VerifyWebhook(payload []byte, signatureHeader string) error {
	var timestamp, v1 string
	for _, part := range strings.Split(signatureHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			v1 = kv[1]
		}
	}
	if timestamp == "" || v1 == "" {
		return ErrBadSignature
	}

	signed := append([]byte(timestamp+"."), payload...)
	if !verifyHex(s.webhookSecret, signed, v1) {
		return ErrBadSignature
	}
	return nil
}

type stripeWebhookPayload struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string `json:"id"`
			Customer          string `json:"customer"`
			ClientReferenceID string `json:"client_reference_id"`
			AmountTotal       int64  `json:"amount_total"`
			Currency          string `json:"currency"`
			Created           int64  `json:"created"`
			CurrentPeriodEnd  int64  `json:"current_period_end"`
			Status            string `json:"status"`
			Items             struct {
				Data []struct {
					Price struct {
						ID string `json:"id"`
					} `json:"price"`
				} `json:"data"`
			} `json:"items"`
		} `json:"object"`
	} `json:"data"`
}

// ParseWebhook normalizes the handful of events billing consumes.
func (s *Stripe) ParseWebhook(payload []byte) (*Event, error) {
	var p stripeWebhookPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}

	obj := p.Data.Object
	event := &Event{
		CustomerID: obj.Customer,
		Reference:  obj.ClientReferenceID,
		TxnID:      obj.ID,
		Currency:   obj.Currency,
	}
	if obj.Created > 0 {
		event.PaidAt = time.Unix(obj.Created, 0).UTC()
	}
	if obj.CurrentPeriodEnd > 0 {
		end := time.Unix(obj.CurrentPeriodEnd, 0).UTC()
		event.PeriodEnd = &end
	}
	if len(obj.Items.Data) > 0 {
		event.PlanID = obj.Items.Data[0].Price.ID
	}

	switch p.Type {
	case "checkout.session.completed":
		event.Type = EventPaymentSucceeded
		event.Amount = float64(obj.AmountTotal) / 100
	case "customer.subscription.updated":
		event.Type = EventSubscriptionUpdated
	case "customer.subscription.deleted":
		event.Type = EventSubscriptionCanceled
	default:
		return nil, ErrUnknownEvent
	}

	return event, nil
}

// FetchSubscription pulls the customer's first subscription for
// reconciliation.
func (s *Stripe) FetchSubscription(ctx context.Context, customerID string) (*SubscriptionState, error) {
	endpoint := fmt.Sprintf("%s/v1/subscriptions?customer=%s&limit=1", s.baseURL, url.QueryEscape(customerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe subscription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stripe subscriptions returned %d: %s", resp.StatusCode, string(body))
	}

	var list struct {
		Data []struct {
			Status           string `json:"status"`
			CurrentPeriodEnd int64  `json:"current_period_end"`
			Items            struct {
				Data []struct {
					Price struct {
						ID string `json:"id"`
					} `json:"price"`
				} `json:"data"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}

	if len(list.Data) == 0 {
		return &SubscriptionState{Active: false}, nil
	}

	sub := list.Data[0]
	state := &SubscriptionState{
		Active: sub.Status == "active" || sub.Status == "trialing",
	}
	if len(sub.Items.Data) > 0 {
		state.PlanID = sub.Items.Data[0].Price.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		state.PeriodEnd = &end
	}

	return state, nil
}
