package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/gerunddev/markbridge/internal/assets"
)

// Config holds the editor-core settings the host stores on disk.
type Config struct {
	DiagramServer string `json:"diagram_server"`
	ImagePattern  string `json:"image_pattern"`
	LogFile       string `json:"log_file,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		DiagramServer: "https://www.plantuml.com/plantuml",
		ImagePattern:  assets.DefaultPattern,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "markbridge", "config.json")
	}
	return filepath.Join(home, ".config", "markbridge", "config.json")
}

// Load reads configuration from the config directory, falling back to
// defaults when no file exists.
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration, creating the directory if needed.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configPath := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(configPath, data, 0644)
}

// Validate checks configuration values
func (c *Config) Validate() error {
	if c.DiagramServer != "" &&
		!strings.HasPrefix(c.DiagramServer, "http://") &&
		!strings.HasPrefix(c.DiagramServer, "https://") {
		return fmt.Errorf("diagram_server must be an http(s) URL, got %q", c.DiagramServer)
	}
	if c.ImagePattern == "" {
		return fmt.Errorf("image_pattern must not be empty")
	}
	return nil
}
