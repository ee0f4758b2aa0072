package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Codes(t *testing.T) {
	tests := []struct {
		name        string
		set         string
		status      int
		body        string
		wantCodes   []string
		wantErr     bool
		errContains string
	}{
		{
			name:      "valid code set",
			set:       "regions",
			status:    http.StatusOK,
			body:      `{"codes": ["us-east", "us-west", "eu-central"]}`,
			wantCodes: []string{"us-east", "us-west", "eu-central"},
		},
		{
			name:      "empty code list",
			set:       "regions",
			status:    http.StatusOK,
			body:      `{"codes": []}`,
			wantCodes: []string{},
		},
		{
			name:        "missing codes field",
			set:         "regions",
			status:      http.StatusOK,
			body:        `{"items": ["a"]}`,
			wantErr:     true,
			errContains: "missing the codes list",
		},
		{
			name:        "null codes field",
			set:         "regions",
			status:      http.StatusOK,
			body:        `{"codes": null}`,
			wantErr:     true,
			errContains: "missing the codes list",
		},
		{
			name:        "malformed codes field",
			set:         "regions",
			status:      http.StatusOK,
			body:        `{"codes": {"not": "a list"}}`,
			wantErr:     true,
			errContains: "malformed",
		},
		{
			name:        "not found",
			set:         "unknown",
			status:      http.StatusNotFound,
			body:        `code set not found`,
			wantErr:     true,
			errContains: "status 404",
		},
		{
			name:        "invalid json",
			set:         "regions",
			status:      http.StatusOK,
			body:        `{{{`,
			wantErr:     true,
			errContains: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				wantPath := fmt.Sprintf("/codesets/%s", tt.set)
				if r.URL.Path != wantPath {
					t.Errorf("expected path %s, got %s", wantPath, r.URL.Path)
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewClient(server.URL, server.Client(), slog.Default())
			codes, err := client.Codes(context.Background(), tt.set)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error to contain %q, got %q", tt.errContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(codes) != len(tt.wantCodes) {
				t.Fatalf("expected %d codes, got %d", len(tt.wantCodes), len(codes))
			}
			for i, code := range codes {
				if code != tt.wantCodes[i] {
					t.Errorf("code %d: expected %q, got %q", i, tt.wantCodes[i], code)
				}
			}
		})
	}
}

func TestClient_Codes_EmptySet(t *testing.T) {
	client := NewClient("http://example.invalid", nil, slog.Default())

	_, err := client.Codes(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty code set name")
	}
}

func TestClient_Codes_NoBaseURL(t *testing.T) {
	client := NewClient("", nil, slog.Default())

	_, err := client.Codes(context.Background(), "regions")
	if err == nil {
		t.Fatal("expected error when base URL is not configured")
	}
	if !strings.Contains(err.Error(), "not configured") {
		t.Errorf("expected configuration error, got %v", err)
	}
}
