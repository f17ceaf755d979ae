// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Directory   DirectoryConfig
	Detect      DetectConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// DirectoryConfig holds directory lookup service configuration. Provider
// selects between the external places API ("remote") and the tenant's own
// business registry ("registry").
type DirectoryConfig struct {
	Provider string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// DetectConfig holds detection engine configuration
type DetectConfig struct {
	TenantID                string
	SearchRadiusMeters      float64
	CacheTTL                time.Duration
	MovementThresholdMeters float64
	MaxAttempts             int
	RetryBackoff            time.Duration
	PositionTimeout         time.Duration
	PositionFreshness       time.Duration
	WiFiBudget              time.Duration
	EventsSubject           string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "sitefix"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Directory: DirectoryConfig{
			Provider: getEnv("DIRECTORY_PROVIDER", "remote"),
			BaseURL:  getEnv("DIRECTORY_BASE_URL", "https://places.example.com"),
			APIKey:   getEnv("DIRECTORY_API_KEY", ""),
			Timeout:  getEnvAsDuration("DIRECTORY_TIMEOUT", 8*time.Second),
		},
		Detect: DetectConfig{
			TenantID:                getEnv("DETECT_TENANT_ID", "default"),
			SearchRadiusMeters:      getEnvAsFloat("DETECT_SEARCH_RADIUS_M", 250.0),
			CacheTTL:                getEnvAsDuration("DETECT_CACHE_TTL", 2*time.Minute),
			MovementThresholdMeters: getEnvAsFloat("DETECT_MOVEMENT_THRESHOLD_M", 75.0),
			MaxAttempts:             getEnvAsInt("DETECT_MAX_ATTEMPTS", 3),
			RetryBackoff:            getEnvAsDuration("DETECT_RETRY_BACKOFF", 1*time.Second),
			PositionTimeout:         getEnvAsDuration("DETECT_POSITION_TIMEOUT", 10*time.Second),
			PositionFreshness:       getEnvAsDuration("DETECT_POSITION_FRESHNESS", 30*time.Second),
			WiFiBudget:              getEnvAsDuration("DETECT_WIFI_BUDGET", 2*time.Second),
			EventsSubject:           getEnv("DETECT_EVENTS_SUBJECT", "location"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Directory.Provider {
	case "remote", "registry":
	default:
		return fmt.Errorf("unknown directory provider %q", config.Directory.Provider)
	}

	if config.Directory.Provider == "remote" && config.Directory.APIKey == "" && config.Environment != "development" {
		return fmt.Errorf("directory API key must be set in non-development environments")
	}

	if config.Detect.MaxAttempts < 1 {
		return fmt.Errorf("detection needs at least one attempt")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
