// Package config loads the application configuration from a YAML file,
// with environment variables taking precedence for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/J-x-Z/native-hub/internal/constants"
)

// Config represents the application configuration.
type Config struct {
	// Engine selects the fetch strategy: "rest" (default) or "cli".
	Engine string `yaml:"engine,omitempty"`

	// CancelScope controls what a Cancel aborts: "login" (default, the
	// most recent login attempt) or "latest" (the most recent work unit
	// of any kind).
	CancelScope string `yaml:"cancel_scope,omitempty"`

	// ClientID is the OAuth app client ID for the device flow. The
	// GITHUB_CLIENT_ID environment variable overrides it.
	ClientID string `yaml:"client_id,omitempty"`

	// APIBaseURL overrides the REST API root (GitHub Enterprise).
	APIBaseURL string `yaml:"api_base_url,omitempty"`

	// DeviceCodeURL and TokenURL override the OAuth endpoints.
	DeviceCodeURL string `yaml:"device_code_url,omitempty"`
	TokenURL      string `yaml:"token_url,omitempty"`
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".native-hub"
	}
	return filepath.Join(configDir, "native-hub")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load loads the configuration from disk. A missing file yields the
// defaults; a malformed one is an error.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine == "" {
		c.Engine = "rest"
	}
	if c.CancelScope == "" {
		c.CancelScope = "login"
	}
	if c.DeviceCodeURL == "" {
		c.DeviceCodeURL = constants.DeviceCodeURL
	}
	if c.TokenURL == "" {
		c.TokenURL = constants.AccessTokenURL
	}
	// The environment wins for the client ID so a .env file can supply
	// it without touching the config file.
	if id := os.Getenv("GITHUB_CLIENT_ID"); id != "" {
		c.ClientID = id
	}
}

func (c *Config) validate() error {
	switch c.Engine {
	case "rest", "cli":
	default:
		return fmt.Errorf("invalid engine %q: must be rest or cli", c.Engine)
	}
	switch c.CancelScope {
	case "login", "latest":
	default:
		return fmt.Errorf("invalid cancel_scope %q: must be login or latest", c.CancelScope)
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	if err := os.MkdirAll(DefaultConfigDir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0600)
}
