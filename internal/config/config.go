package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".gridrun"

	// EnvConcurrencyLimit is the process environment variable that sets
	// the per-payload worker limit
	EnvConcurrencyLimit = "CONCURRENCY_LIMIT"

	// DefaultConcurrencyLimit is used when the environment variable is
	// absent or non-numeric
	DefaultConcurrencyLimit = 10

	// DefaultWindowDays is the size of the default trailing period window
	DefaultWindowDays = 7
)

// Manager handles gridrun configuration
type Manager struct {
	configPath string
	config     *GridrunConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &GridrunConfig{},
	}
}

// Load loads the gridrun configuration from file
func (m *Manager) Load() (*GridrunConfig, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// Set environment variable support
	m.viper.SetEnvPrefix("GRIDRUN")
	m.viper.AutomaticEnv()

	// Initialize config to ensure defaults are set even for empty configs
	m.config = &GridrunConfig{}

	if err := m.viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		m.applyDefaults()
		return m.config, nil
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.applyDefaults()

	return m.config, nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *GridrunConfig {
	return m.config
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	if m.config.Defaults.Parallel == 0 {
		m.config.Defaults.Parallel = ConcurrencyLimit()
	}

	if m.config.Defaults.WindowDays == 0 {
		m.config.Defaults.WindowDays = DefaultWindowDays
	}

	if m.config.Defaults.Timeout == 0 {
		m.config.Defaults.Timeout = 30 * time.Second
	}

	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = "table"
	}
}

// ConcurrencyLimit reads the worker limit from the process environment.
// The value defaults when the variable is absent or non-numeric, and is
// coerced to at least 1 so a misconfigured limit can never invalidate
// every payload's execution plan.
func ConcurrencyLimit() int {
	raw, ok := os.LookupEnv(EnvConcurrencyLimit)
	if !ok {
		return DefaultConcurrencyLimit
	}

	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("ignoring non-numeric concurrency limit",
			"env", EnvConcurrencyLimit,
			"value", raw)
		return DefaultConcurrencyLimit
	}

	if limit < 1 {
		slog.Warn("raising concurrency limit to minimum",
			"env", EnvConcurrencyLimit,
			"value", limit)
		return 1
	}

	return limit
}
