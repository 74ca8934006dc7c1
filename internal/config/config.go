// Package config handles configuration for tutorchat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/diogo/tutorchat/internal/models"
	"github.com/diogo/tutorchat/internal/render"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "TUTORCHAT_"

// Config represents the user configuration
type Config struct {
	// BaseURL is the course backend address; the chat endpoint lives at BaseURL/api/chat.
	BaseURL string `json:"base_url" env:"URL"`
	// RequestTimeout is the outbound call timeout in seconds. Zero means no timeout,
	// so a hung backend keeps the chat waiting until it answers.
	RequestTimeout int    `json:"request_timeout" env:"TIMEOUT"`
	TUITheme       string `json:"tui_theme,omitempty" env:"THEME"`
	// LogFile receives diagnostics. The TUI owns the terminal, so nothing is logged there.
	LogFile         string   `json:"log_file,omitempty" env:"LOG_FILE"`
	LogLevel        string   `json:"log_level,omitempty" env:"LOG_LEVEL"`
	Presets         []string `json:"presets,omitempty" env:"PRESETS" envSeparator:"|"`
	CopyToClipboard bool     `json:"copy_to_clipboard" env:"COPY"`
	// LoadingDelay is how long the startup overlay stays up, in milliseconds.
	LoadingDelay int `json:"loading_delay_ms" env:"LOADING_DELAY_MS"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	logFile := ""
	if dir, err := GetConfigDir(); err == nil {
		logFile = filepath.Join(dir, "tutorchat.log")
	}
	return Config{
		BaseURL:         models.DefaultBaseURL,
		RequestTimeout:  0,
		TUITheme:        "tokyonight",
		LogFile:         logFile,
		LogLevel:        "info",
		Presets:         append([]string(nil), models.DefaultPresets...),
		CopyToClipboard: false,
		LoadingDelay:    1000,
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// LoadingOverlayDelay returns how long the startup overlay is shown
func (c Config) LoadingOverlayDelay() time.Duration {
	if c.LoadingDelay < 0 {
		return 0
	}
	return time.Duration(c.LoadingDelay) * time.Millisecond
}

// Validate checks the values that would otherwise fail later at request time
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://, got %q", c.BaseURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative")
	}
	if c.TUITheme != "" {
		if _, ok := render.GetTUIThemeByName(c.TUITheme); !ok {
			return fmt.Errorf("unknown tui_theme %q (available: %s)", c.TUITheme, strings.Join(render.TUIThemeNames(), ", "))
		}
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".tutorchat")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadDotEnv loads KEY=VALUE pairs from .env files into the process environment.
// Missing files are not an error; variables already set are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Use defaults if config doesn't exist
	default:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with any TUTORCHAT_* variables that are set
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
