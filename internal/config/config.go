package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// HTTP settings
	HTTPAddr string

	// Feed settings
	FeedsConfigPath  string
	FeedTimeout      time.Duration
	FetchConcurrency int

	// Aggregation settings
	MaxStories int
	PageSize   int

	// Cache settings
	CacheTTL    time.Duration
	DatabaseURL string // optional persistent cache backend

	// Warmer settings
	WarmInterval time.Duration // 0 disables the in-process warmer

	// Startup settings
	RetryAttempts int
	RetryDelay    time.Duration

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		HTTPAddr:         ":8080",
		FeedsConfigPath:  "configs/feeds.yaml",
		FeedTimeout:      4 * time.Second,
		FetchConcurrency: 6,
		MaxStories:       140,
		PageSize:         60,
		CacheTTL:         10 * time.Minute,
		WarmInterval:     10 * time.Minute,
		RetryAttempts:    3,
		RetryDelay:       2 * time.Second,
	}

	cfg.HTTPAddr = getEnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.FeedTimeout = getEnvDurationOrDefault("FEED_TIMEOUT", cfg.FeedTimeout)
	cfg.FetchConcurrency = getEnvIntOrDefault("FETCH_CONCURRENCY", cfg.FetchConcurrency)
	cfg.MaxStories = getEnvIntOrDefault("MAX_STORIES", cfg.MaxStories)
	cfg.PageSize = getEnvIntOrDefault("PAGE_SIZE", cfg.PageSize)
	cfg.CacheTTL = getEnvDurationOrDefault("CACHE_TTL", cfg.CacheTTL)
	cfg.WarmInterval = getEnvDurationOrDefault("WARM_INTERVAL", cfg.WarmInterval)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvDurationOrDefault("RETRY_DELAY", cfg.RetryDelay)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if c.FeedsConfigPath == "" {
		return fmt.Errorf("FEEDS_CONFIG_PATH must not be empty")
	}
	if c.FeedTimeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT must be positive")
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive")
	}
	if c.MaxStories <= 0 || c.PageSize <= 0 {
		return fmt.Errorf("MAX_STORIES and PAGE_SIZE must be positive")
	}
	if c.PageSize > c.MaxStories {
		return fmt.Errorf("PAGE_SIZE must not exceed MAX_STORIES")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}
