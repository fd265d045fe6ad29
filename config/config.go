package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration for the FreeScout MCP gateway.
// Values are read from the environment, with an optional .env file for
// local development.
type Config struct {
	FreeScoutURL    string
	FreeScoutAPIKey string

	// DefaultInboxID scopes searches that carry no explicit inbox id.
	// Empty means "search all inboxes".
	DefaultInboxID string

	// AllowPII disables redaction of message bodies in summary and
	// thread responses.
	AllowPII bool

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration
	CacheMaxEntries int

	LogLevel  string
	Transport string // "stdio" or "http"
	Port      string
}

func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		FreeScoutURL:    getEnv("FREESCOUT_URL", ""),
		FreeScoutAPIKey: getEnv("FREESCOUT_API_KEY", ""),
		DefaultInboxID:  getEnv("FREESCOUT_DEFAULT_INBOX_ID", ""),
		AllowPII:        getEnvBool("ALLOW_PII", false),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 1000),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Transport:       getEnv("TRANSPORT", "stdio"),
		Port:            getEnv("PORT", "8080"),
	}

	if cfg.FreeScoutURL == "" {
		log.Fatal().Msg("FREESCOUT_URL environment variable is required")
	}

	if cfg.FreeScoutAPIKey == "" {
		log.Fatal().Msg("FREESCOUT_API_KEY environment variable is required")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
