package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig                 `yaml:"app"`
	Logging   LoggingConfig             `yaml:"logging"`
	Client    ClientConfig              `yaml:"client"`
	Exchanges map[string]ExchangeConfig `yaml:"exchanges"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type LoggingConfig struct {
	Level  string        `yaml:"level"`
	Format string        `yaml:"format"`
	Output string        `yaml:"output"`
	File   LogFileConfig `yaml:"file"`
}

type LogFileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
}

type ClientConfig struct {
	Timeout   time.Duration   `yaml:"timeout"`
	UserAgent string          `yaml:"user_agent"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Retry     RetryConfig     `yaml:"retry"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffMultiplier int           `yaml:"backoff_multiplier"`
}

type ExchangeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// LoadConfig reads and validates the configuration file. Credentials are
// never required in the YAML itself: for every exchange entry the
// <EXCHANGE>_API_KEY / <EXCHANGE>_API_SECRET environment variables override
// whatever the file carries.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 5,
				BurstSize:         1,
			},
			Retry: RetryConfig{
				MaxAttempts:       3,
				BaseDelay:         100 * time.Millisecond,
				MaxDelay:          5 * time.Second,
				BackoffMultiplier: 2,
			},
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override credentials from environment variables if available
	for id, ex := range config.Exchanges {
		prefix := strings.ToUpper(id)
		if v := os.Getenv(prefix + "_API_KEY"); v != "" {
			ex.APIKey = strings.TrimSpace(v)
		}
		if v := os.Getenv(prefix + "_API_SECRET"); v != "" {
			ex.APISecret = strings.TrimSpace(v)
		}
		config.Exchanges[id] = ex
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Exchange returns the configuration block for an exchange id, with zero
// values when the file has no entry.
func (c *Config) Exchange(id string) ExchangeConfig {
	if c.Exchanges == nil {
		return ExchangeConfig{}
	}
	return c.Exchanges[id]
}

func validateConfig(cfg *Config) error {
	if cfg.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if cfg.App.Version == "" {
		return fmt.Errorf("app.version is required")
	}

	if cfg.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be greater than 0")
	}

	if cfg.Client.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("client.rate_limit.requests_per_second must be greater than 0")
	}

	if cfg.Client.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("client.retry.max_attempts must be greater than 0")
	}
	if cfg.Client.Retry.BaseDelay <= 0 {
		return fmt.Errorf("client.retry.base_delay must be greater than 0")
	}

	if strings.ToLower(cfg.Logging.Output) == "file" && cfg.Logging.File.Path == "" {
		return fmt.Errorf("logging.file.path is required when logging to a file")
	}

	return nil
}
