// Package jobapi provides the client for the remote job API. Submitting one
// job for one (period, item) combination is the deferred operation behind
// every generated task.
package jobapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// JobRequest describes one unit of remote work
type JobRequest struct {
	// Period is the period-axis value of the combination
	Period string `json:"period"`

	// Item is the item-axis value of the combination
	Item string `json:"item"`

	// Context is the payload's shared context, forwarded unchanged
	Context map[string]interface{} `json:"context,omitempty"`
}

// JobAccepted is the job API's acknowledgement of a submitted job
type JobAccepted struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// Client talks to the job API
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient creates a job API client over the given HTTP client
func NewClient(baseURL string, httpc *http.Client, logger *slog.Logger) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		logger:  logger,
	}
}

// Submit sends one job to the API and returns its acknowledgement.
// Non-2xx responses are reported as errors carrying the status and a
// snippet of the response body.
func (c *Client) Submit(ctx context.Context, job JobRequest) (*JobAccepted, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("job API URL is not configured")
	}

	body, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job request: %w", err)
	}

	endpoint := c.baseURL + "/jobs"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build job request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("submitting job", "period", job.Period, "item", job.Item)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit job for %s/%s: %w", job.Period, job.Item, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("job for %s/%s rejected with status %d: %s",
			job.Period, job.Item, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var accepted JobAccepted
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return nil, fmt.Errorf("failed to decode job response for %s/%s: %w", job.Period, job.Item, err)
	}

	c.logger.Debug("job accepted",
		"period", job.Period,
		"item", job.Item,
		"id", accepted.ID)

	return &accepted, nil
}
