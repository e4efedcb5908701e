package app

import (
	"os"
	"strconv"
	"time"

	"github.com/404talk/webapp/pkg/apiclient"
)

type Config struct {
	APIBaseURL      string        // Upstream identity API base URL (default: http://api.404talk.com/api)
	APIKey          string        // Optional: static API key sent with every upstream request
	APIKeyHeader    string        // Header carrying the API key (default: X-API-Key)
	UpstreamTimeout time.Duration // Hard deadline for upstream requests (default: 30s)

	DemoLoginEmail        string // Optional: demo credential email
	DemoLoginPasswordHash string // Optional: argon2id hash of the demo password
	DemoTokenSecret       string // Optional: HS256 secret for demo-minted tokens

	SessionDBFile string // Optional: path to a persistent credential database

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		APIBaseURL:      getEnvOrDefault("API_BASE_URL", "http://api.404talk.com/api"),
		APIKey:          os.Getenv("API_KEY"),
		APIKeyHeader:    getEnvOrDefault("API_KEY_HEADER", apiclient.DefaultAPIKeyHeader),
		UpstreamTimeout: getEnvDurationOrDefault("UPSTREAM_TIMEOUT", apiclient.DefaultTimeout),

		DemoLoginEmail:        os.Getenv("DEMO_LOGIN_EMAIL"),
		DemoLoginPasswordHash: os.Getenv("DEMO_LOGIN_PASSWORD_HASH"),
		DemoTokenSecret:       os.Getenv("DEMO_TOKEN_SECRET"),

		SessionDBFile: os.Getenv("SESSION_DB_FILE"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
