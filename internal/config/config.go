package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Proxy holds configuration for the news proxy service.
type Proxy struct {
	// APIKey is the process-wide default World News API key. Empty means no
	// default; callers must then pass their own key.
	APIKey          string
	BaseURL         string
	UpstreamTimeout time.Duration

	BindAddr        string
	DefaultLanguage string
	DefaultNumber   int
	ExportDir       string
}

// LoadProxy builds a Proxy config from environment variables.
func LoadProxy() (*Proxy, error) {
	c := &Proxy{
		APIKey:          os.Getenv("WORLDNEWS_API_KEY"),
		BaseURL:         getEnv("WORLDNEWS_BASE_URL", "https://api.worldnewsapi.com"),
		UpstreamTimeout: getDuration("WORLDNEWS_TIMEOUT", "10s"),
		BindAddr:        getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		DefaultLanguage: getEnv("API_DEFAULT_LANGUAGE", "en"),
		DefaultNumber:   getInt("API_DEFAULT_NUMBER", 10),
		ExportDir:       getEnv("EXPORT_DIR", "data"),
	}

	if c.BaseURL == "" {
		return nil, fmt.Errorf("WORLDNEWS_BASE_URL must not be empty")
	}
	if c.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("WORLDNEWS_TIMEOUT must be positive")
	}
	if c.BindAddr == "" {
		return nil, fmt.Errorf("API_BIND_ADDR must not be empty")
	}
	if c.DefaultLanguage == "" {
		return nil, fmt.Errorf("API_DEFAULT_LANGUAGE must not be empty")
	}
	if c.DefaultNumber <= 0 {
		return nil, fmt.Errorf("API_DEFAULT_NUMBER must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
