package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/recnetbot/recnet/rest"
)

// Load reads configuration from configPath, or from the standard locations
// when configPath is empty. A missing file is not an error when searching;
// defaults and RECNET_* environment variables still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("recnet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".recnet"))
		}
		v.AddConfigPath("/etc/recnet/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.key", "")
	v.SetDefault("api.version", rest.DefaultAPIVersion)
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.user_agent", rest.DefaultUserAgent)
	v.SetDefault("api.timeout", rest.DefaultTimeout)

	// Dispatch defaults
	v.SetDefault("ratelimit.capacity", rest.DefaultRateCapacity)
	v.SetDefault("ratelimit.window", rest.DefaultRateWindow)
	v.SetDefault("pool.max_connections", rest.DefaultMaxConnections)
	v.SetDefault("retry.max_retries", rest.DefaultMaxRetries)
	v.SetDefault("retry.delay", rest.DefaultRetryDelay)
	v.SetDefault("concurrency", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid. The API key is checked
// by the commands that need it.
func validate(cfg *Config) error {
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	if cfg.RateLimit.Capacity <= 0 {
		return fmt.Errorf("ratelimit.capacity must be positive")
	}
	if cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("ratelimit.window must be positive")
	}

	if cfg.Pool.MaxConnections <= 0 {
		return fmt.Errorf("pool.max_connections must be positive")
	}

	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries cannot be negative")
	}
	if cfg.Retry.Delay < 0 {
		return fmt.Errorf("retry.delay cannot be negative")
	}

	if cfg.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}

	for name, expression := range cfg.Filters {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filters.%s has an empty expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
