package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds global application settings
type Config struct {
	RootDir          string        `yaml:"root_dir,omitempty"`
	LogLevel         string        `yaml:"log_level"`
	Theme            string        `yaml:"theme"`
	Keybindings      string        `yaml:"keybindings"`
	LaunchArgs       []string      `yaml:"launch_args,omitempty"`
	LaunchTimeout    time.Duration `yaml:"-"`
	LaunchTimeoutStr string        `yaml:"launch_timeout,omitempty"`
	Watch            bool          `yaml:"watch"`
}

// Theme names accepted in config.yaml
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

func defaults() *Config {
	return &Config{
		LogLevel:    "info",
		Theme:       ThemeDark,
		Keybindings: "vim",
	}
}

// Load reads configuration from the given directory
func Load(configDir string) (*Config, error) {
	cfg := defaults()

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // Return defaults
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.LaunchTimeoutStr != "" {
		d, err := time.ParseDuration(cfg.LaunchTimeoutStr)
		if err != nil {
			return nil, fmt.Errorf("parsing launch_timeout: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("launch_timeout must not be negative: %s", cfg.LaunchTimeoutStr)
		}
		cfg.LaunchTimeout = d
	}

	if cfg.Theme != ThemeLight {
		cfg.Theme = ThemeDark
	}

	return cfg, nil
}

// Save writes configuration to the given directory
func (c *Config) Save(configDir string) error {
	c.LaunchTimeoutStr = ""
	if c.LaunchTimeout > 0 {
		c.LaunchTimeoutStr = c.LaunchTimeout.String()
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// IsDark reports whether the dark theme is selected
func (c *Config) IsDark() bool {
	return c.Theme != ThemeLight
}
