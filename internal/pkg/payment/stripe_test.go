package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelsnapper/snapper_go_server/config"
)

func TestStripe_VerifyWebhook(t *testing.T) {
	s := NewStripe(&config.StripeConfig{WebhookSecret: "whsec_test"})
	payload := []byte(`{"type":"checkout.session.completed"}`)

	sig := signHex("whsec_test", append([]byte("1700000000."), payload...))
	header := "t=1700000000,v1=" + sig

	assert.NoError(t, s.VerifyWebhook(payload, header))

	assert.ErrorIs(t, s.VerifyWebhook(payload, "t=1700000000,v1=deadbeef"), ErrBadSignature)
	assert.ErrorIs(t, s.VerifyWebhook(payload, ""), ErrBadSignature)
	assert.ErrorIs(t, s.VerifyWebhook(payload, "v1="+sig), ErrBadSignature)

	// tampered payload no longer matches the signed digest
	assert.ErrorIs(t, s.VerifyWebhook([]byte(`{"type":"evil"}`), header), ErrBadSignature)
}

func TestStripe_ParseWebhook_CheckoutCompleted(t *testing.T) {
	s := NewStripe(&config.StripeConfig{})

	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_123",
			"customer": "cus_42",
			"client_reference_id": "7",
			"amount_total": 4900,
			"currency": "usd",
			"created": 1700000000
		}}
	}`)

	event, err := s.ParseWebhook(payload)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "cus_42", event.CustomerID)
	assert.Equal(t, "7", event.Reference)
	assert.Equal(t, "cs_123", event.TxnID)
	assert.Equal(t, 49.0, event.Amount)
	assert.Equal(t, "usd", event.Currency)
	assert.Equal(t, int64(1700000000), event.PaidAt.Unix())
}

func TestStripe_ParseWebhook_SubscriptionEvents(t *testing.T) {
	s := NewStripe(&config.StripeConfig{})

	payload := []byte(`{
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_1",
			"customer": "cus_42",
			"current_period_end": 1702592000,
			"items": {"data": [{"price": {"id": "price_pro"}}]}
		}}
	}`)

	event, err := s.ParseWebhook(payload)
	require.NoError(t, err)
	assert.Equal(t, EventSubscriptionUpdated, event.Type)
	assert.Equal(t, "price_pro", event.PlanID)
	require.NotNil(t, event.PeriodEnd)

	payload = []byte(`{"type":"customer.subscription.deleted","data":{"object":{"id":"sub_1","customer":"cus_42"}}}`)
	event, err = s.ParseWebhook(payload)
	require.NoError(t, err)
	assert.Equal(t, EventSubscriptionCanceled, event.Type)

	_, err = s.ParseWebhook([]byte(`{"type":"invoice.finalized","data":{"object":{}}}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestStripe_CreateCheckout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "price_pro", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "7", r.PostForm.Get("client_reference_id"))

		json.NewEncoder(w).Encode(map[string]string{"url": "https://checkout.stripe.com/s/abc"})
	}))
	defer server.Close()

	s := NewStripe(&config.StripeConfig{SecretKey: "sk_test", BaseURL: server.URL})

	url, err := s.CreateCheckout(context.Background(), CheckoutParams{
		CustomerEmail: "buyer@example.com",
		PlanID:        "price_pro",
		SuccessURL:    "https://app.example.com/success",
		CancelURL:     "https://app.example.com/cancel",
		Reference:     "7",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/s/abc", url)
}

func TestStripe_FetchSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions", r.URL.Path)
		assert.Equal(t, "cus_42", r.URL.Query().Get("customer"))

		w.Write([]byte(`{"data":[{"status":"active","current_period_end":1702592000,"items":{"data":[{"price":{"id":"price_pro"}}]}}]}`))
	}))
	defer server.Close()

	s := NewStripe(&config.StripeConfig{SecretKey: "sk_test", BaseURL: server.URL})

	state, err := s.FetchSubscription(context.Background(), "cus_42")
	require.NoError(t, err)
	assert.True(t, state.Active)
	assert.Equal(t, "price_pro", state.PlanID)
	require.NotNil(t, state.PeriodEnd)
}
