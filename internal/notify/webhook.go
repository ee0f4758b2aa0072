// Package notify implements the debug forward path: when an event carries the
// debug flag, its raw body is posted to a notification webhook instead of
// being executed.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Notifier forwards raw event bodies to a webhook endpoint
type Notifier struct {
	url    string
	httpc  *http.Client
	logger *slog.Logger
}

// NewNotifier creates a notifier over the given HTTP client
func NewNotifier(url string, httpc *http.Client, logger *slog.Logger) *Notifier {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		url:    url,
		httpc:  httpc,
		logger: logger,
	}
}

// Forward posts the raw event bytes to the webhook unchanged
func (n *Notifier) Forward(ctx context.Context, raw []byte) error {
	if n.url == "" {
		return fmt.Errorf("notification webhook URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	n.logger.Debug("forwarding event to webhook", "url", n.url, "bytes", len(raw))

	resp, err := n.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to forward event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook rejected event with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	n.logger.Info("event forwarded to webhook", "url", n.url)

	return nil
}
