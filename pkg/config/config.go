package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DevJWTSecret is accepted only when ENV=development
const DevJWTSecret = "dev-secret"

// Config holds all configuration for the application.
// Load is the only place that reads environment variables.
type Config struct {
	// Server
	Port     string
	GRPCPort string
	Env      string // development, staging, production

	ShutdownTimeout time.Duration

	// Database
	Database DatabaseConfig

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Portfolio
	PerformanceMetric string // roi, gain, annualized
	SeedDemo          bool

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds storage configuration
type DatabaseConfig struct {
	Driver string

	// PostgreSQL
	ConnStr  string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	// SQLite
	SQLitePath string

	ConnectRetries    int
	ConnectRetryDelay time.Duration
}

// Load reads configuration from environment variables, after loading a .env file if one exists
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port:            getEnv("PORT", "8080"),
		GRPCPort:        getEnv("GRPC_PORT", "9090"),
		Env:             getEnv("ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "10s"),

		// Database
		Database: DatabaseConfig{
			Driver:            strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			ConnStr:           getEnv("DB_CONN_STR", ""),
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnv("DB_PORT", "5432"),
			Name:              getEnv("DB_NAME", "portfolio"),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			SQLitePath:        getEnv("SQLITE_PATH", "data/portfolio.db"),
			ConnectRetries:    getEnvAsInt("DB_CONNECT_RETRIES", 5),
			ConnectRetryDelay: getEnvAsDuration("DB_CONNECT_RETRY_DELAY", "2s"),
		},

		// Auth
		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", "24h"),

		// Portfolio
		PerformanceMetric: strings.ToLower(getEnv("PERFORMANCE_METRIC", "roi")),
		SeedDemo:          getEnvAsBool("SEED_DEMO", false),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = DevJWTSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether ENV=development
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// PostgresDSN returns DB_CONN_STR, or builds a DSN from the individual DB_* variables
func (c *DatabaseConfig) PostgresDSN() string {
	if c.ConnStr != "" {
		return c.ConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be one of: postgres, sqlite, memory")
	}

	switch c.PerformanceMetric {
	case "roi", "gain", "annualized":
	default:
		return fmt.Errorf("PERFORMANCE_METRIC must be one of: roi, gain, annualized")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}

	if c.Port == c.GRPCPort {
		return fmt.Errorf("PORT and GRPC_PORT must differ")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from the working directory, then next to the executable
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
