package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/greenthumb-labs/tend/internal/logger"
)

// Config holds all configuration for the tend application
type Config struct {
	// RedisURL is the connection URL for Redis
	RedisURL string
	// SchedulerPollInterval is how often the scheduler checks for due jobs
	SchedulerPollInterval time.Duration
	// HeatAlertTemp is the hot-weather alert threshold in Fahrenheit
	HeatAlertTemp int
	// OpenWeatherAPIKey enables live weather data; empty means mock data
	OpenWeatherAPIKey string
	// GardenLatitude is the garden's latitude for weather lookups
	GardenLatitude float64
	// GardenLongitude is the garden's longitude for weather lookups
	GardenLongitude float64
	// Logging configuration
	Logging *logger.Config
}

// LoadConfig loads configuration from environment variables with sensible defaults
func LoadConfig() (*Config, error) {
	cfg := &Config{
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
		SchedulerPollInterval: getEnvAsDuration("SCHEDULER_POLL_INTERVAL", 60*time.Second),
		HeatAlertTemp:         getEnvAsInt("HEAT_ALERT_TEMP", 90),
		OpenWeatherAPIKey:     getEnv("OPENWEATHERMAP_API_KEY", ""),
		GardenLatitude:        getEnvAsFloat("GARDEN_LATITUDE", 37.7749),
		GardenLongitude:       getEnvAsFloat("GARDEN_LONGITUDE", -122.4194),
		Logging:               loadLoggingConfig(),
	}

	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL cannot be empty")
	}
	if cfg.SchedulerPollInterval <= 0 {
		return nil, fmt.Errorf("SCHEDULER_POLL_INTERVAL must be positive")
	}
	if cfg.GardenLatitude < -90 || cfg.GardenLatitude > 90 {
		return nil, fmt.Errorf("GARDEN_LATITUDE must be between -90 and 90")
	}
	if cfg.GardenLongitude < -180 || cfg.GardenLongitude > 180 {
		return nil, fmt.Errorf("GARDEN_LONGITUDE must be between -180 and 180")
	}

	if err := cfg.Logging.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	return cfg, nil
}

// UseMockWeather reports whether the weather provider should run in
// demo mode
func (c *Config) UseMockWeather() bool {
	return c.OpenWeatherAPIKey == ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
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

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// loadLoggingConfig loads logging configuration from environment variables
func loadLoggingConfig() *logger.Config {
	cfg := logger.DefaultConfig()

	if level := getEnv("LOG_LEVEL", ""); level != "" {
		cfg.Level = logger.LogLevel(level)
	}
	if format := getEnv("LOG_FORMAT", ""); format != "" {
		cfg.Format = logger.LogFormat(format)
	}

	// Tier 1: Console
	cfg.Console.Enabled = getEnvAsBool("LOG_CONSOLE_ENABLED", true)
	cfg.Console.Color = getEnvAsBool("LOG_COLOR", true)
	cfg.Console.BufferSize = getEnvAsInt("LOG_CONSOLE_BUFFER_SIZE", 65536)
	cfg.Console.FlushInterval = getEnvAsDuration("LOG_CONSOLE_FLUSH_INTERVAL", 100*time.Millisecond)

	// Tier 2: File
	cfg.File.Enabled = getEnvAsBool("LOG_FILE_ENABLED", false)
	cfg.File.Path = getEnv("LOG_FILE_PATH", "/var/log/tend/tend.log")
	cfg.File.MaxSizeMB = getEnvAsInt("LOG_FILE_MAX_SIZE_MB", 100)
	cfg.File.MaxBackups = getEnvAsInt("LOG_FILE_MAX_BACKUPS", 5)
	cfg.File.MaxAgeDays = getEnvAsInt("LOG_FILE_MAX_AGE_DAYS", 30)
	cfg.File.Compress = getEnvAsBool("LOG_FILE_COMPRESS", true)
	cfg.File.BufferSize = getEnvAsInt("LOG_FILE_BUFFER_SIZE", 10000)
	cfg.File.BatchSize = getEnvAsInt("LOG_FILE_BATCH_SIZE", 100)
	cfg.File.BatchInterval = getEnvAsDuration("LOG_FILE_BATCH_INTERVAL", 100*time.Millisecond)

	return cfg
}
