package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueue(t *testing.T) *Queue {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewQueue(client, "test_render_queue")
}

func TestQueue_PushPop(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()

	msg := &RenderMessage{
		RenderID:   7,
		UserID:     42,
		TargetType: "avatar",
		AvatarID:   3,
		GarmentURL: "https://cdn.example.com/garment.png",
	}
	require.NoError(t, q.Push(ctx, msg))

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, msg, got)
}

func TestQueue_FIFO(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, &RenderMessage{RenderID: 1}))
	require.NoError(t, q.Push(ctx, &RenderMessage{RenderID: 2}))

	first, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.RenderID)

	second, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.RenderID)
}

func TestQueue_PopTimeout(t *testing.T) {
	q := setupQueue(t)

	msg, err := q.Pop(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, msg)
}
