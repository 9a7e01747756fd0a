package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultCoreAPIURL = "http://localhost:8080/api/v1"

type Config struct {
	AppEnv             string
	BotToken           string
	CoreAPIURL         string
	InternalServiceKey string
	WebhookPort        string
	LogLevel           string
	LogFormat          string
}

// Load reads configuration from a .env file (if present) and the environment.
// BOT_TOKEN is the only hard requirement; INTERNAL_SERVICE_KEY is optional and
// its absence is surfaced by the caller as a startup warning, not an error.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments use plain env vars.
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		BotToken:           getEnv("BOT_TOKEN", ""),
		CoreAPIURL:         getEnv("CORE_API_URL", defaultCoreAPIURL),
		InternalServiceKey: getEnv("INTERNAL_SERVICE_KEY", ""),
		WebhookPort:        getEnv("WEBHOOK_PORT", "8081"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.CoreAPIURL == "" {
		return nil, fmt.Errorf("CORE_API_URL must not be empty")
	}
	if _, err := strconv.Atoi(cfg.WebhookPort); err != nil {
		return nil, fmt.Errorf("WEBHOOK_PORT must be numeric: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
