package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"mood-booster/internal/push"
)

// Config keeps runtime settings for the server.
type Config struct {
	Port             string
	DatabaseURL      string
	Firebase         push.Credentials
	CronSecret       string
	DefaultUserID    string
	DispatchInterval time.Duration
	DispatchBatch    int
	LogLevel         string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "mood_booster.db"),
		Firebase: push.Credentials{
			ProjectID:   strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
			ClientEmail: strings.TrimSpace(os.Getenv("FIREBASE_CLIENT_EMAIL")),
			PrivateKey:  os.Getenv("FIREBASE_PRIVATE_KEY"),
		},
		CronSecret:       strings.TrimSpace(os.Getenv("CRON_SECRET")),
		DefaultUserID:    strings.TrimSpace(os.Getenv("DEFAULT_USER_ID")),
		DispatchInterval: getEnvAsDuration("DISPATCH_INTERVAL", 0),
		DispatchBatch:    getEnvAsInt("DISPATCH_BATCH", 25),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
