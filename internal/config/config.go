package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingAddr    = errors.New("SERVER_ADDR is required")
	ErrMissingBackend = errors.New("SEARCH_BASE_URL is required")
	ErrNegativeDelay  = errors.New("SUMMARY_RETRY_DELAY_MS must be non-negative")
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Summary   SummaryConfig
	Scrape    ScrapeConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Database  DatabaseConfig
	Log       LogConfig
}

type ServerConfig struct {
	Addr string
}

// BackendConfig points client fetchers at the search gateway.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SummaryConfig configures the completion backend. Keys is the ordered
// credential pool; it is never embedded in source.
type SummaryConfig struct {
	Keys       []string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	RetryDelay time.Duration
}

type ScrapeConfig struct {
	Timeout   time.Duration
	UserAgent string
}

type CacheConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type DatabaseConfig struct {
	URL string
}

type LogConfig struct {
	Level string
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnvOrDefault("SERVER_ADDR", ":8000"),
		},
		Backend: BackendConfig{
			BaseURL: getEnvOrDefault("SEARCH_BASE_URL", "http://localhost:8000"),
			Timeout: time.Duration(getEnvIntOrDefault("SEARCH_TIMEOUT_SEC", 30)) * time.Second,
		},
		Summary: SummaryConfig{
			Keys:       splitKeys(os.Getenv("SUMMARY_API_KEYS")),
			Model:      getEnvOrDefault("SUMMARY_MODEL", "deepseek/deepseek-chat"),
			BaseURL:    getEnvOrDefault("SUMMARY_BASE_URL", "https://openrouter.ai/api/v1"),
			Timeout:    time.Duration(getEnvIntOrDefault("SUMMARY_TIMEOUT_SEC", 60)) * time.Second,
			RetryDelay: time.Duration(getEnvIntOrDefault("SUMMARY_RETRY_DELAY_MS", 800)) * time.Millisecond,
		},
		Scrape: ScrapeConfig{
			Timeout:   time.Duration(getEnvIntOrDefault("SCRAPE_TIMEOUT_SEC", 15)) * time.Second,
			UserAgent: getEnvOrDefault("SCRAPE_USER_AGENT", defaultUserAgent),
		},
		Cache: CacheConfig{
			TTL: time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 3600)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return ErrMissingAddr
	}
	if c.Backend.BaseURL == "" {
		return ErrMissingBackend
	}
	if c.Summary.RetryDelay < 0 {
		return ErrNegativeDelay
	}
	return nil
}

// splitKeys parses a comma-separated credential list, dropping blanks.
func splitKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
