package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelsnapper/snapper_go_server/config"
)

func TestLemonSqueezy_VerifyWebhook(t *testing.T) {
	l := NewLemonSqueezy(&config.LemonSqueezyConfig{SigningSecret: "ls_secret"})
	payload := []byte(`{"meta":{"event_name":"order_created"}}`)

	assert.NoError(t, l.VerifyWebhook(payload, signHex("ls_secret", payload)))
	assert.ErrorIs(t, l.VerifyWebhook(payload, "deadbeef"), ErrBadSignature)
	assert.ErrorIs(t, l.VerifyWebhook(payload, ""), ErrBadSignature)
}

func TestLemonSqueezy_ParseWebhook_OrderCreated(t *testing.T) {
	l := NewLemonSqueezy(&config.LemonSqueezyConfig{})

	payload := []byte(`{
		"meta": {"event_name": "order_created", "custom_data": {"reference": "7"}},
		"data": {
			"id": "1182912",
			"attributes": {
				"customer_id": 4242,
				"variant_id": 99,
				"total": 4900,
				"currency": "USD",
				"status": "paid",
				"created_at": "2026-08-01T12:00:00Z"
			}
		}
	}`)

	event, err := l.ParseWebhook(payload)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "4242", event.CustomerID)
	assert.Equal(t, "7", event.Reference)
	assert.Equal(t, "99", event.PlanID)
	assert.Equal(t, "1182912", event.TxnID)
	assert.Equal(t, 49.0, event.Amount)
}

func TestLemonSqueezy_ParseWebhook_SubscriptionLifecycle(t *testing.T) {
	l := NewLemonSqueezy(&config.LemonSqueezyConfig{})

	payload := []byte(`{
		"meta": {"event_name": "subscription_updated"},
		"data": {"id": "55", "attributes": {"customer_id": 4242, "variant_id": 99, "status": "active", "renews_at": "2026-09-01T00:00:00Z"}}
	}`)
	event, err := l.ParseWebhook(payload)
	require.NoError(t, err)
	assert.Equal(t, EventSubscriptionUpdated, event.Type)
	require.NotNil(t, event.PeriodEnd)

	for _, name := range []string{"subscription_cancelled", "subscription_expired"} {
		payload := []byte(`{"meta":{"event_name":"` + name + `"},"data":{"id":"55","attributes":{"customer_id":4242}}}`)
		event, err := l.ParseWebhook(payload)
		require.NoError(t, err)
		assert.Equal(t, EventSubscriptionCanceled, event.Type)
	}

	_, err = l.ParseWebhook([]byte(`{"meta":{"event_name":"license_key_created"},"data":{"id":"1"}}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)
}
