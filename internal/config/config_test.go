package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diogo/tutorchat/internal/models"
)

// withHome points the config directory at a temp dir for the duration of the test
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefaultConfig(t *testing.T) {
	withHome(t)
	cfg := DefaultConfig()

	if cfg.BaseURL != models.DefaultBaseURL {
		t.Errorf("Expected BaseURL %q, got %q", models.DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("Expected no request timeout by default, got %d", cfg.RequestTimeout)
	}
	if cfg.Timeout() != 0 {
		t.Errorf("Expected Timeout() == 0, got %v", cfg.Timeout())
	}
	if cfg.TUITheme != "tokyonight" {
		t.Errorf("Expected theme 'tokyonight', got %q", cfg.TUITheme)
	}
	if len(cfg.Presets) != len(models.DefaultPresets) {
		t.Errorf("Expected %d presets, got %d", len(models.DefaultPresets), len(cfg.Presets))
	}
	if cfg.LoadingOverlayDelay() != time.Second {
		t.Errorf("Expected 1s loading overlay, got %v", cfg.LoadingOverlayDelay())
	}
}

func TestDefaultConfig_PresetsAreCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Presets[0] = "changed"
	if models.DefaultPresets[0] == "changed" {
		t.Error("DefaultConfig must not alias models.DefaultPresets")
	}
}

func TestGetConfigPath(t *testing.T) {
	home := withHome(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	want := filepath.Join(home, ".tutorchat", "config.json")
	if path != want {
		t.Errorf("GetConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	withHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.BaseURL != models.DefaultBaseURL {
		t.Errorf("Expected default BaseURL, got %q", cfg.BaseURL)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	withHome(t)

	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:9000"
	cfg.RequestTimeout = 30
	cfg.TUITheme = "nord"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	path, _ := GetConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file permissions = %o, want 600", perm)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.BaseURL != "http://127.0.0.1:9000" {
		t.Errorf("BaseURL = %q", loaded.BaseURL)
	}
	if loaded.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", loaded.Timeout())
	}
	if loaded.TUITheme != "nord" {
		t.Errorf("TUITheme = %q", loaded.TUITheme)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	withHome(t)

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if cfg.BaseURL != models.DefaultBaseURL {
		t.Errorf("Expected defaults on parse error, got %q", cfg.BaseURL)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	withHome(t)
	t.Setenv("TUTORCHAT_URL", "https://course.example.com")
	t.Setenv("TUTORCHAT_TIMEOUT", "45")
	t.Setenv("TUTORCHAT_THEME", "dracula")
	t.Setenv("TUTORCHAT_PRESETS", "first question|second question")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.BaseURL != "https://course.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 45 {
		t.Errorf("RequestTimeout = %d", cfg.RequestTimeout)
	}
	if cfg.TUITheme != "dracula" {
		t.Errorf("TUITheme = %q", cfg.TUITheme)
	}
	if len(cfg.Presets) != 2 || cfg.Presets[1] != "second question" {
		t.Errorf("Presets = %#v", cfg.Presets)
	}
}

func TestLoadConfig_BadEnvValue(t *testing.T) {
	withHome(t)
	t.Setenv("TUTORCHAT_TIMEOUT", "soon")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for non-numeric timeout")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TUTORCHAT_DOTENV_PROBE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TUTORCHAT_DOTENV_PROBE", "")
	os.Unsetenv("TUTORCHAT_DOTENV_PROBE")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() returned error: %v", err)
	}
	if got := os.Getenv("TUTORCHAT_DOTENV_PROBE"); got != "from-file" {
		t.Errorf("TUTORCHAT_DOTENV_PROBE = %q, want %q", got, "from-file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty url", func(c *Config) { c.BaseURL = "" }, true},
		{"no scheme", func(c *Config) { c.BaseURL = "localhost:8080" }, true},
		{"https", func(c *Config) { c.BaseURL = "https://x.test" }, false},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -1 }, true},
		{"known theme", func(c *Config) { c.TUITheme = "nord" }, false},
		{"no theme", func(c *Config) { c.TUITheme = "" }, false},
		{"unknown theme", func(c *Config) { c.TUITheme = "solarized" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
