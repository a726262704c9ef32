package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelRenderProgress = "render_progress"
)

// ProgressMessage is a render status update pushed to the owner's dashboard.
type ProgressMessage struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	RenderID int64  `json:"render_id"`
	Status   string `json:"status"`
	Step     string `json:"step"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Render progress steps.
const (
	StepSubmitting = "submitting"
	StepGenerating = "generating"
	StepUploading  = "uploading"
	StepDone       = "done"
)

var StepProgress = map[string]int{
	StepSubmitting: 20,
	StepGenerating: 60,
	StepUploading:  85,
	StepDone:       100,
}

var StepMessages = map[string]string{
	StepSubmitting: "Submitting to the render engine",
	StepGenerating: "Generating your image",
	StepUploading:  "Saving the result",
	StepDone:       "Render complete",
}

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishProgress publishes a render progress update, filling in the step's
// default progress and message when the caller leaves them zero.
func (p *Publisher) PublishProgress(ctx context.Context, msg *ProgressMessage) error {
	msg.Type = "render_progress"

	if msg.Progress == 0 && msg.Step != "" {
		if progress, ok := StepProgress[msg.Step]; ok {
			msg.Progress = progress
		}
	}
	if msg.Message == "" && msg.Step != "" {
		if message, ok := StepMessages[msg.Step]; ok {
			msg.Message = message
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal progress message: %w", err)
	}

	return p.client.Publish(ctx, ChannelRenderProgress, data).Err()
}

type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe delivers progress messages to handler until ctx is cancelled.
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*ProgressMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelRenderProgress)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var progressMsg ProgressMessage
			if err := json.Unmarshal([]byte(msg.Payload), &progressMsg); err != nil {
				continue
			}

			handler(&progressMsg)
		}
	}
}
