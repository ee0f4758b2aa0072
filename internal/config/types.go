package config

import "time"

// GridrunConfig represents the gridrun configuration file structure
type GridrunConfig struct {
	// Services holds the endpoints of the external collaborators
	Services ServicesConfig `mapstructure:"services" yaml:"services,omitempty" json:"services,omitempty"`

	// Defaults contains default settings for batch runs
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// ServicesConfig holds the base URLs of the remote services gridrun talks to
type ServicesConfig struct {
	// RefdataURL is the base URL of the reference-data service
	RefdataURL string `mapstructure:"refdataUrl" yaml:"refdataUrl,omitempty" json:"refdataUrl,omitempty"`

	// JobsURL is the base URL of the job submission API
	JobsURL string `mapstructure:"jobsUrl" yaml:"jobsUrl,omitempty" json:"jobsUrl,omitempty"`

	// WebhookURL is the notification endpoint for the debug forward path
	WebhookURL string `mapstructure:"webhookUrl" yaml:"webhookUrl,omitempty" json:"webhookUrl,omitempty"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Parallel is the number of concurrently executing tasks per payload
	Parallel int `mapstructure:"parallel" yaml:"parallel,omitempty" json:"parallel,omitempty"`

	// WindowDays is the size of the default trailing period window
	WindowDays int `mapstructure:"windowDays" yaml:"windowDays,omitempty" json:"windowDays,omitempty"`

	// Timeout for outbound HTTP requests
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `mapstructure:"outputFormat" yaml:"outputFormat,omitempty" json:"outputFormat,omitempty"`

	// NoColor disables colored output
	NoColor bool `mapstructure:"noColor" yaml:"noColor,omitempty" json:"noColor,omitempty"`
}
