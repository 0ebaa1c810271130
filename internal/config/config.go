package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

// Config holds the application configuration
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	Port     string `envconfig:"PORT" default:"5050"`
	LogLevel string `envconfig:"LOG_LEVEL"`

	YouTubeAPIKey  string `envconfig:"YOUTUBE_API_KEY"`
	YouTubeBaseURL string `envconfig:"YOUTUBE_BASE_URL" default:"https://www.googleapis.com"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173,https://yt-analytics-dashboard.vercel.app"`

	UpstreamTimeout       time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"15s"`
	CompetitorConcurrency int           `envconfig:"COMPETITOR_CONCURRENCY" default:"4"`
}

// Load loads the configuration from the environment, reading an optional
// .env file first. It reports whether the .env file was found so callers
// can log the fallback.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, dotenv, fmt.Errorf("failed to process environment: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.AppEnv == "dev" {
			cfg.LogLevel = "debug"
		}
	}
	if cfg.CompetitorConcurrency < 1 {
		cfg.CompetitorConcurrency = 1
	}

	return &cfg, dotenv, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	return nil
}

// KeyPreview returns a redacted prefix of the API key for health output.
func (c *Config) KeyPreview() string {
	if c.YouTubeAPIKey == "" {
		return ""
	}
	key := c.YouTubeAPIKey
	if len(key) > 6 {
		key = key[:6]
	}
	return key + "..."
}
