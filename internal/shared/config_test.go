package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Pagination.PageSize != 50 {
			t.Errorf("expected page size 50, got %d", config.Pagination.PageSize)
		}

		if config.Retry.MaxAttempts != 5 {
			t.Errorf("expected 5 retry attempts, got %d", config.Retry.MaxAttempts)
		}

		if config.YouTube.TokenDir != "~/.config/tubekit" {
			t.Errorf("expected token dir ~/.config/tubekit, got %s", config.YouTube.TokenDir)
		}

		if config.Dump.Folder != "." {
			t.Errorf("expected dump folder ., got %s", config.Dump.Folder)
		}

		if config.RateLimit.RequestsPerSecond != 5.0 {
			t.Errorf("expected 5 requests per second, got %v", config.RateLimit.RequestsPerSecond)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Pagination.PageSize != defaultConfig.Pagination.PageSize {
			t.Errorf("created config page size doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		content := `
[youtube]
client_id = "id"
client_secret = "secret"
token_dir = "/tmp/tokens"

[pagination]
page_size = 25

[retry]
max_attempts = 3

[rate_limit]
requests_per_second = 2.5

[dump]
folder = "$home/dumps/$date"
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.YouTube.ClientID != "id" || config.YouTube.ClientSecret != "secret" {
			t.Errorf("credentials not loaded: %+v", config.YouTube)
		}
		if config.Pagination.PageSize != 25 {
			t.Errorf("expected page size 25, got %d", config.Pagination.PageSize)
		}
		if config.Retry.MaxAttempts != 3 {
			t.Errorf("expected 3 retry attempts, got %d", config.Retry.MaxAttempts)
		}
		if config.RateLimit.RequestsPerSecond != 2.5 {
			t.Errorf("expected 2.5 requests per second, got %v", config.RateLimit.RequestsPerSecond)
		}
		if config.Dump.Folder != "$home/dumps/$date" {
			t.Errorf("expected raw template folder, got %s", config.Dump.Folder)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("loading a missing config should fail")
		}
	})

	t.Run("LoadConfig invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("not [valid"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(configPath); err == nil {
			t.Error("loading invalid TOML should fail")
		}
	})
}
