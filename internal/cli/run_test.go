package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aryankumar/gridrun/internal/config"
	"github.com/spf13/viper"
)

func TestRunCommandRequiresFile(t *testing.T) {
	cmd := newRunCmd()
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when --file is missing")
	}
}

func TestReadEventFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event.json")

	content := []byte(`{"jobs": []}`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write event file: %v", err)
	}

	data, err := readEventFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestReadEventFile_Missing(t *testing.T) {
	_, err := readEventFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWorkerLimit(t *testing.T) {
	cfg := &config.GridrunConfig{}
	cfg.Defaults.Parallel = 10

	tests := []struct {
		name     string
		parallel int
		want     int
	}{
		{name: "flag unset falls back to config", parallel: 0, want: 10},
		{name: "explicit flag wins", parallel: 4, want: 4},
		{name: "negative flag falls back to config", parallel: -1, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("parallel", tt.parallel)
			defer viper.Set("parallel", 0)

			if got := workerLimit(cfg); got != tt.want {
				t.Errorf("expected limit %d, got %d", tt.want, got)
			}
		})
	}
}
