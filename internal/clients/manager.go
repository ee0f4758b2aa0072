// Package clients owns the process-wide shared transport and the service
// clients built on it. The manager is created once per process; its HTTP
// client and its service clients are reused across all tasks and all batches
// and are read-only from the scheduler's perspective.
package clients

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aryankumar/gridrun/internal/batch"
	"github.com/aryankumar/gridrun/internal/config"
	"github.com/aryankumar/gridrun/internal/jobapi"
	"github.com/aryankumar/gridrun/internal/notify"
	"github.com/aryankumar/gridrun/internal/refdata"
)

// Manager holds the shared HTTP transport and lazily-built service clients
type Manager struct {
	// httpClient is the single pooled transport shared by every service
	// client, every task and every batch
	httpClient *http.Client

	// services holds the configured endpoints
	services config.ServicesConfig

	// mu protects lazy client construction
	mu sync.Mutex

	refdata  *refdata.Client
	jobs     *jobapi.Client
	notifier *notify.Notifier

	// logger for structured logging
	logger *slog.Logger
}

// NewManager creates the shared transport and client registry.
// A zero timeout leaves outbound requests unbounded, matching the
// executor's no-per-task-timeout model; callers normally pass the
// configured default.
func NewManager(services config.ServicesConfig, timeout time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	logger.Debug("created shared transport",
		"timeout", timeout,
		"refdata_url", services.RefdataURL,
		"jobs_url", services.JobsURL)

	return &Manager{
		httpClient: httpClient,
		services:   services,
		logger:     logger,
	}
}

// HTTPClient returns the shared transport
func (m *Manager) HTTPClient() *http.Client {
	return m.httpClient
}

// Refdata returns the reference-data client, building it on first use
func (m *Manager) Refdata() *refdata.Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.refdata == nil {
		m.refdata = refdata.NewClient(m.services.RefdataURL, m.httpClient, m.logger)
	}
	return m.refdata
}

// Jobs returns the job API client, building it on first use
func (m *Manager) Jobs() *jobapi.Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.jobs == nil {
		m.jobs = jobapi.NewClient(m.services.JobsURL, m.httpClient, m.logger)
	}
	return m.jobs
}

// Notifier returns the webhook notifier, building it on first use
func (m *Manager) Notifier() *notify.Notifier {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.notifier == nil {
		m.notifier = notify.NewNotifier(m.services.WebhookURL, m.httpClient, m.logger)
	}
	return m.notifier
}

// Runner returns the task operation bound into every generated task:
// submitting one job per (period, item) combination to the job API.
func (m *Manager) Runner() batch.RunFunc {
	jobs := m.Jobs()

	return func(ctx context.Context, period, item string, shared map[string]interface{}) (interface{}, error) {
		return jobs.Submit(ctx, jobapi.JobRequest{
			Period:  period,
			Item:    item,
			Context: shared,
		})
	}
}

// Close releases idle connections held by the shared transport
func (m *Manager) Close() {
	m.logger.Debug("closing shared transport")
	m.httpClient.CloseIdleConnections()
}
