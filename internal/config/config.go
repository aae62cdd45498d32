// Package config holds the lylebot configuration: backend endpoints, UI
// behavior, the corpus inbox, and logging. Precedence is defaults, then the
// yaml file, then LYLEBOT_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete lylebot configuration.
type Config struct {
	// Contact service (CRUD, activity logs, personalized email generation)
	ContactAPI ServiceConfig `yaml:"contact_api"`

	// Document service (chat, downloads, corpus management, outreach)
	DocumentAPI ServiceConfig `yaml:"document_api"`

	// Terminal UI behavior
	UI UIConfig `yaml:"ui"`

	// Corpus inbox watcher
	Corpus CorpusConfig `yaml:"corpus"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig points at one REST backend.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration parses the configured timeout, falling back to 30s.
func (s ServiceConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// UIConfig configures the interactive console.
type UIConfig struct {
	PageSize        int    `yaml:"page_size"`
	LogPollInterval string `yaml:"log_poll_interval"`
}

// PollInterval parses the activity-log poll interval, falling back to 2s.
func (u UIConfig) PollInterval() time.Duration {
	d, err := time.ParseDuration(u.LogPollInterval)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// CorpusConfig configures the upload inbox.
type CorpusConfig struct {
	InboxDir string `yaml:"inbox_dir"`
}

// LoggingConfig configures logging output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty for stderr
}

// DefaultConfig returns the default configuration. Both services default to
// the port the local development backends bind to.
func DefaultConfig() *Config {
	return &Config{
		ContactAPI: ServiceConfig{
			BaseURL: "http://127.0.0.1:5000",
			Timeout: "30s",
		},
		DocumentAPI: ServiceConfig{
			BaseURL: "http://127.0.0.1:5000",
			Timeout: "60s",
		},
		UI: UIConfig{
			PageSize:        10,
			LogPollInterval: "2s",
		},
		Corpus: CorpusConfig{
			InboxDir: "inbox",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, the yaml file at path (if it
// exists), and environment overrides, in that order. An empty path skips the
// file stage entirely.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file is fine; defaults plus env apply.
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if cfg.UI.PageSize < 1 {
		cfg.UI.PageSize = 10
	}
	return cfg, nil
}

// applyEnvOverrides applies LYLEBOT_* environment variables on top of the
// current values. Environment wins over file and defaults.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LYLEBOT_CONTACT_API"); v != "" {
		c.ContactAPI.BaseURL = v
	}
	if v := os.Getenv("LYLEBOT_DOCUMENT_API"); v != "" {
		c.DocumentAPI.BaseURL = v
	}
	if v := os.Getenv("LYLEBOT_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.UI.PageSize = n
		}
	}
	if v := os.Getenv("LYLEBOT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LYLEBOT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("LYLEBOT_INBOX"); v != "" {
		c.Corpus.InboxDir = v
	}
}
