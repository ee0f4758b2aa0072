// Package refdata provides a client for the reference-data service, which
// resolves named code sets into ordered code lists during event normalization.
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the reference-data service
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient creates a reference-data client over the given HTTP client.
// The HTTP client is the process-wide shared transport; the refdata
// client never replaces it.
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

// Codes fetches the ordered code list for a named code set.
// The response must carry a "codes" list; an absent or malformed field
// is reported as a descriptive error.
func (c *Client) Codes(ctx context.Context, set string) ([]string, error) {
	if set == "" {
		return nil, fmt.Errorf("code set name must not be empty")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("reference-data service URL is not configured")
	}

	endpoint := fmt.Sprintf("%s/codesets/%s", c.baseURL, url.PathEscape(set))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build codeset request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching code set", "set", set, "url", endpoint)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch code set %q: %w", set, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("code set %q: unexpected status %d: %s",
			set, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Codes json.RawMessage `json:"codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("code set %q: failed to decode response: %w", set, err)
	}

	if len(payload.Codes) == 0 || string(payload.Codes) == "null" {
		return nil, fmt.Errorf("code set %q: response is missing the codes list", set)
	}

	var codes []string
	if err := json.Unmarshal(payload.Codes, &codes); err != nil {
		return nil, fmt.Errorf("code set %q: codes list is malformed: %w", set, err)
	}

	c.logger.Debug("fetched code set", "set", set, "count", len(codes))

	return codes, nil
}
