package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Queue struct {
	client    *redis.Client
	queueName string
}

// RenderMessage is one queued render job.
type RenderMessage struct {
	RenderID   int64  `json:"render_id"`
	UserID     int64  `json:"user_id"`
	TargetType string `json:"target_type"`
	ModelID    int64  `json:"model_id,omitempty"`
	AvatarID   int64  `json:"avatar_id,omitempty"`
	GarmentURL string `json:"garment_url"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push enqueues a render job.
func (q *Queue) Push(ctx context.Context, msg *RenderMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop blocks up to timeout for the next job. A nil message means timeout.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*RenderMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg RenderMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length returns the number of queued jobs.
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
