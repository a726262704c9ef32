package genapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/modelsnapper/snapper_go_server/config"
)

var ErrJobFailed = errors.New("generation job failed")

// Provider-side job statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
)

// SubmitRequest pairs a garment image with a render target. Exactly one of
// ModelImageURL / ProviderModelID is set.
type SubmitRequest struct {
	GarmentURL      string `json:"garment_url"`
	ModelImageURL   string `json:"model_image_url,omitempty"`
	ProviderModelID string `json:"model_id,omitempty"`
}

type Job struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Client is a thin JSON client for the external image-generation service.
type Client struct {
	baseURL    string
	apiKey     string
	pollEvery  time.Duration
	maxPolls   int
	httpClient *http.Client
}

func NewClient(cfg *config.GenerationConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pollEvery := time.Duration(cfg.PollSeconds) * time.Second
	if pollEvery <= 0 {
		pollEvery = 2 * time.Second
	}
	maxPolls := cfg.MaxPolls
	if maxPolls <= 0 {
		maxPolls = 150
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		pollEvery:  pollEvery,
		maxPolls:   maxPolls,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Submit enqueues a render on the provider and returns the job handle.
func (c *Client) Submit(ctx context.Context, req *SubmitRequest) (*Job, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/renders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("submit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("submit returned %d: %s", resp.StatusCode, string(body))
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	if job.ID == "" {
		return nil, fmt.Errorf("provider returned job without id")
	}

	return &job, nil
}

// GetJob fetches the current state of a provider job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/renders/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("job query returned %d: %s", resp.StatusCode, string(body))
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}

	return &job, nil
}

// WaitForResult polls until the job reaches a terminal state. The provider's
// completion signal is trusted as-is; a failed job returns ErrJobFailed.
func (c *Client) WaitForResult(ctx context.Context, jobID string) (*Job, error) {
	ticker := time.NewTicker(c.pollEvery)
	defer ticker.Stop()

	for i := 0; i < c.maxPolls; i++ {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case StatusSucceeded:
			return job, nil
		case StatusFailed:
			return job, fmt.Errorf("%w: %s", ErrJobFailed, job.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return nil, fmt.Errorf("job %s did not finish within %d polls", jobID, c.maxPolls)
}
