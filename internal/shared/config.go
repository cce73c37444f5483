package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	YouTube    YouTubeConfig    `toml:"youtube"`
	Pagination PaginationConfig `toml:"pagination"`
	Retry      RetryConfig      `toml:"retry"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
	Dump       DumpConfig       `toml:"dump"`
}

// YouTubeConfig contains OAuth client credentials and the token cache location.
type YouTubeConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TokenDir     string `toml:"token_dir"`
}

// PaginationConfig controls page size for list calls. The server caps it at 50.
type PaginationConfig struct {
	PageSize int64 `toml:"page_size"`
}

// RetryConfig controls the retry wrapper around remote calls.
type RetryConfig struct {
	MaxAttempts int `toml:"max_attempts"`
}

// RateLimitConfig paces remote calls. Zero disables the override and keeps
// the client's built-in limit.
type RateLimitConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DumpConfig contains settings for the dump command.
type DumpConfig struct {
	Folder string `toml:"folder"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
