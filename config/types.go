package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API         APIConfig       `mapstructure:"api"`
	RateLimit   RateLimitConfig `mapstructure:"ratelimit"`
	Pool        PoolConfig      `mapstructure:"pool"`
	Retry       RetryConfig     `mapstructure:"retry"`
	Concurrency int             `mapstructure:"concurrency"`
	Filters     FilterConfig    `mapstructure:"filters"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// APIConfig holds RecNet API connection details
type APIConfig struct {
	Key       string        `mapstructure:"key"`
	Version   string        `mapstructure:"version"`
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig sizes the shared request budget
type RateLimitConfig struct {
	Capacity int           `mapstructure:"capacity"`
	Window   time.Duration `mapstructure:"window"`
}

// PoolConfig bounds the connection pool
type PoolConfig struct {
	MaxConnections int `mapstructure:"max_connections"`
}

// RetryConfig controls transport-level retries
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	Delay      time.Duration `mapstructure:"delay"`
}

// FilterConfig maps preset names to filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
