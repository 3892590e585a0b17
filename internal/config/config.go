package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database Configuration
	Database DatabaseConfig

	// Redis Configuration
	Redis RedisConfig

	// Logging Configuration
	Logging LoggingConfig

	// Places holds the third-party location-autocomplete configuration
	Places PlacesConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string // Redis address (host:port)
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// PlacesConfig holds the public API key for the location-autocomplete
// service. When unset, dashboard clients fetch the key from the
// authenticated /api/config/places-key endpoint instead.
type PlacesConfig struct {
	APIKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// Database URL - default to reachly.sqlite, allow override for dev
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "reachly.sqlite"
	}

	// Redis address - default to localhost:6379, allow override for dev/docker
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Redis: RedisConfig{
			Address: redisAddr,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
		Places: PlacesConfig{
			APIKey: os.Getenv("PLACES_API_KEY"),
		},
	}, nil
}
