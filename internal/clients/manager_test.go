package clients

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aryankumar/gridrun/internal/config"
)

func TestManager_LazyClientsAreSingletons(t *testing.T) {
	m := NewManager(config.ServicesConfig{
		RefdataURL: "http://refdata.invalid",
		JobsURL:    "http://jobs.invalid",
		WebhookURL: "http://hooks.invalid",
	}, 5*time.Second, slog.Default())
	defer m.Close()

	if m.Refdata() != m.Refdata() {
		t.Error("Refdata should return the same client on repeated calls")
	}
	if m.Jobs() != m.Jobs() {
		t.Error("Jobs should return the same client on repeated calls")
	}
	if m.Notifier() != m.Notifier() {
		t.Error("Notifier should return the same client on repeated calls")
	}
	if m.HTTPClient() == nil {
		t.Error("expected a shared HTTP client")
	}
}

func TestManager_Runner_SubmitsJobs(t *testing.T) {
	var got struct {
		Period  string                 `json:"period"`
		Item    string                 `json:"item"`
		Context map[string]interface{} `json:"context"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode job request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
	}))
	defer server.Close()

	m := NewManager(config.ServicesConfig{JobsURL: server.URL}, 5*time.Second, slog.Default())
	defer m.Close()

	run := m.Runner()

	value, err := run(context.Background(), "2024-01-01", "us-east", map[string]interface{}{"k": "v"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value == nil {
		t.Fatal("expected a job acknowledgement value")
	}

	if got.Period != "2024-01-01" || got.Item != "us-east" {
		t.Errorf("unexpected submitted job: %+v", got)
	}
	if got.Context["k"] != "v" {
		t.Errorf("shared context not forwarded: %+v", got.Context)
	}
}
