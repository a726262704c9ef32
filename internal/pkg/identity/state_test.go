package identity

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStateStore(t *testing.T) *StateStore {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStateStore(client)
}

func TestStateStore_SingleUse(t *testing.T) {
	store := setupStateStore(t)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "https://app.example.com/dashboard")
	require.NoError(t, err)
	require.NotEmpty(t, state)

	redirectURI, err := store.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/dashboard", redirectURI)

	// a consumed state token never validates again
	_, err = store.ValidateState(ctx, state)
	assert.Error(t, err)
}

func TestStateStore_InvalidState(t *testing.T) {
	store := setupStateStore(t)
	ctx := context.Background()

	_, err := store.ValidateState(ctx, "")
	assert.Error(t, err)

	_, err = store.ValidateState(ctx, "does-not-exist")
	assert.Error(t, err)
}

func TestStateStore_UniqueTokens(t *testing.T) {
	store := setupStateStore(t)
	ctx := context.Background()

	first, err := store.GenerateState(ctx, "")
	require.NoError(t, err)
	second, err := store.GenerateState(ctx, "")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
