// ABOUTME: Configuration loading and parsing for console-state
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete console-state configuration
type Config struct {
	Service Service `yaml:"service"`
	Session Session `yaml:"session"`
	Refresh Refresh `yaml:"refresh"`
	Chat    Chat    `yaml:"chat"`
	Logging Logging `yaml:"logging"`
}

// Service holds the chat-listing service endpoint configuration
type Service struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"-"`

	TimeoutRaw string `yaml:"timeout"`
}

// Session holds the operator session configuration. Token is the signed
// session JWT carrying the operator identity; Secret verifies it.
type Session struct {
	Token  string `yaml:"token"`
	Secret string `yaml:"secret"`
}

// Refresh holds queue refresh timing configuration
type Refresh struct {
	PollInterval time.Duration `yaml:"-"`
	ReplaceDelay time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	PollIntervalRaw string `yaml:"poll_interval"`
	ReplaceDelayRaw string `yaml:"replace_delay"`
}

// Chat holds classification configuration
type Chat struct {
	// BotID is the owner sentinel for not-yet-triaged conversations.
	BotID string `yaml:"bot_id"`
	// Locale selects the collation for group-name ordering, e.g. "et".
	Locale string `yaml:"locale"`
}

// Logging holds logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded and
// duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service.base_url is required")
	}

	if c.Session.Token != "" && c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required when session.token is set")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration
// values. Absent values stay zero; consumers apply their own defaults.
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Service.TimeoutRaw != "" {
		cfg.Service.Timeout, err = time.ParseDuration(cfg.Service.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.Service.TimeoutRaw, err)
		}
	}

	if cfg.Refresh.PollIntervalRaw != "" {
		cfg.Refresh.PollInterval, err = time.ParseDuration(cfg.Refresh.PollIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing poll_interval %q: %w", cfg.Refresh.PollIntervalRaw, err)
		}
	}

	if cfg.Refresh.ReplaceDelayRaw != "" {
		cfg.Refresh.ReplaceDelay, err = time.ParseDuration(cfg.Refresh.ReplaceDelayRaw)
		if err != nil {
			return fmt.Errorf("parsing replace_delay %q: %w", cfg.Refresh.ReplaceDelayRaw, err)
		}
	}

	return nil
}
