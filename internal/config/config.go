package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// EngineConfig holds computation engine tuning knobs.
type EngineConfig struct {
	// CacheCapacity bounds the memoization LRU.
	CacheCapacity int `envconfig:"MATH_CACHE_CAPACITY" default:"128"`
	// PlotResolution is the default sample count for curves.
	PlotResolution int `envconfig:"MATH_PLOT_RESOLUTION" default:"500"`
	// AsymptoteClip masks graph samples with magnitude above this.
	AsymptoteClip float64 `envconfig:"MATH_ASYMPTOTE_CLIP" default:"20"`
	// JumpThreshold blanks neighbors of jumps larger than this.
	JumpThreshold float64 `envconfig:"MATH_JUMP_THRESHOLD" default:"10"`
	// EigenGroupDecimals is the rounding used before grouping numeric
	// eigenvalues into multiplicities.
	EigenGroupDecimals int `envconfig:"MATH_EIGEN_GROUP_DECIMALS" default:"4"`
	// TaylorMaxOrder caps the requested series order.
	TaylorMaxOrder int `envconfig:"MATH_TAYLOR_MAX_ORDER" default:"12"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Engine: EngineConfig{
			CacheCapacity:      128,
			PlotResolution:     500,
			AsymptoteClip:      20,
			JumpThreshold:      10,
			EigenGroupDecimals: 4,
			TaylorMaxOrder:     12,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
