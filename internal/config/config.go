package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/ukydev/workshop-maintenance/internal/notify"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Storage
	StoreDriver string
	MongoURI    string
	MongoDB     string

	// Authentication
	JWTSecret string
	JWTExpiry time.Duration

	// Notifications
	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string
	DigestCron   string

	// Presentation
	Locale   string
	Location *time.Location

	// Logging
	LogLevel  string
	LogFormat string

	// Rate limiting
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load reads an optional .env file named by ENV_FILE and then the
// environment. A missing default .env file is not an error.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		StoreDriver:  getEnv("STORE_DRIVER", StoreMongo),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "workshop_maintenance"),
		JWTSecret:    getEnv("JWT_SECRET", "default-secret-key-change-in-production"),
		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "workshop-maintenance"),
		MQTTTopic:    getEnv("MQTT_TOPIC", "maintenance/due"),
		DigestCron:   getEnv("DIGEST_CRON", "0 7 * * *"),
		Locale:       getEnv("LOCALE", "en"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		RateLimitMax: getEnvAsInt("RATE_LIMIT_MAX", 100),
	}

	expiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "24h"))
	if err != nil || expiry <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRY must be a positive duration")
	}
	cfg.JWTExpiry = expiry

	window := getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60)
	if window <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	cfg.RateLimitWindow = time.Duration(window) * time.Second
	if cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, cfg.StoreDriver)
	}

	if err := notify.ValidateSchedule(cfg.DigestCron); err != nil {
		return nil, fmt.Errorf("DIGEST_CRON: %w", err)
	}

	switch cfg.Locale {
	case "en", "vi":
	default:
		return nil, fmt.Errorf("LOCALE must be en or vi, got %q", cfg.Locale)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
