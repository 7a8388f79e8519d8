package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"finflow/internal/logger"
)

// Storage backends.
const (
	BackendCache    = "cache"
	BackendDatabase = "database"
	BackendRemote   = "remote"
)

// Cache drivers.
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Config holds application configuration
type Config struct {
	// Server
	Env    string
	Port   string
	APIKey string

	// Storage
	StorageBackend string
	CacheDriver    string
	CacheDir       string
	CacheKeyPrefix string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Encryption
	EncryptCache        bool
	LedgerPassphrase    string
	LedgerSalt          string
	LedgerKDFIterations int

	// Remote record store
	RemoteURL      string
	RemoteAPIKey   string
	RemoteTable    string
	RequestTimeout time.Duration

	// Events
	EventsAMQPURL  string
	EventsExchange string

	// Reports
	Timezone    string
	Location    *time.Location
	ReportTitle string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Named("config").Debug(".env file not found, using process environment")
	}

	config := &Config{
		Env:    getEnv("ENV", "development"),
		Port:   getEnv("PORT", "8080"),
		APIKey: os.Getenv("API_KEY"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendCache)),
		CacheDriver:    strings.ToLower(getEnv("CACHE_DRIVER", CacheFile)),
		CacheDir:       getEnv("CACHE_DIR", "data"),
		CacheKeyPrefix: getEnv("CACHE_KEY_PREFIX", "finflow:"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		LedgerPassphrase: os.Getenv("LEDGER_PASSPHRASE"),
		LedgerSalt:       getEnv("LEDGER_SALT", "salt"),

		RemoteURL:    strings.TrimRight(os.Getenv("REMOTE_URL"), "/"),
		RemoteAPIKey: os.Getenv("REMOTE_API_KEY"),
		RemoteTable:  getEnv("REMOTE_TABLE", "transactions"),

		EventsAMQPURL:  os.Getenv("EVENTS_AMQP_URL"),
		EventsExchange: getEnv("EVENTS_EXCHANGE", "finflow.ledger"),

		Timezone:    getEnv("TIMEZONE", "Local"),
		ReportTitle: getEnv("REPORT_TITLE", "FinFlow Transactions Report"),
	}

	var err error
	if config.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if config.EncryptCache, err = strconv.ParseBool(getEnv("ENCRYPT_CACHE", "false")); err != nil {
		return nil, fmt.Errorf("invalid ENCRYPT_CACHE: %w", err)
	}
	if config.LedgerKDFIterations, err = strconv.Atoi(getEnv("LEDGER_KDF_ITERATIONS", "100000")); err != nil {
		return nil, fmt.Errorf("invalid LEDGER_KDF_ITERATIONS: %w", err)
	}
	if config.RequestTimeout, err = time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	if config.Location, err = time.LoadLocation(config.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", config.Timezone, err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendCache, BackendDatabase, BackendRemote:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: expected cache, database or remote", c.StorageBackend)
	}

	switch c.CacheDriver {
	case CacheMemory, CacheFile, CacheRedis:
	default:
		return fmt.Errorf("invalid CACHE_DRIVER %q: expected memory, file or redis", c.CacheDriver)
	}

	if c.LedgerKDFIterations < 1 {
		return fmt.Errorf("invalid LEDGER_KDF_ITERATIONS %d: must be positive", c.LedgerKDFIterations)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT %s: must be positive", c.RequestTimeout)
	}
	if c.StorageBackend == BackendCache && c.EncryptCache && c.LedgerPassphrase == "" {
		return fmt.Errorf("ENCRYPT_CACHE requires LEDGER_PASSPHRASE")
	}
	if c.StorageBackend == BackendRemote && c.RemoteURL == "" {
		return fmt.Errorf("STORAGE_BACKEND=remote requires REMOTE_URL")
	}
	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			logger.Get().Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
