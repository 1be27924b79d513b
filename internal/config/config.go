package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Logging     LoggingConfig
	Environment string
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// Addr returns the host:port pair the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver         string
	Path           string // sqlite
	URL            string // postgres
	MaxConnections int
}

type AuthConfig struct {
	JWTSecret  string
	BcryptCost int
}

type RateLimitConfig struct {
	// AuthPerMinute limits signup and login attempts per client IP. Zero disables it.
	AuthPerMinute int
	AuthBurst     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDatabase reads and validates only the database settings, for commands
// that never serve requests.
func LoadDatabase() (DatabaseConfig, error) {
	cfg := fromEnv().Database
	if err := cfg.Validate(); err != nil {
		return DatabaseConfig{}, err
	}
	return cfg, nil
}

// LoadLogging reads only the logging settings.
func LoadLogging() LoggingConfig {
	return fromEnv().Logging
}

func fromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("PORT", 8080),
			ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)),
			Path:           getEnv("DATABASE_PATH", "eventhub.db"),
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 10),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			BcryptCost: getEnvInt("BCRYPT_COST", 12),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getEnvInt("RATE_LIMIT_AUTH_PER_MINUTE", 10),
			AuthBurst:     getEnvInt("RATE_LIMIT_AUTH_BURST", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

// IsProduction reports whether the server runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate checks the invariants the server depends on.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.Auth.BcryptCost)
	}
	if c.RateLimit.AuthPerMinute > 0 && c.RateLimit.AuthBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_AUTH_BURST must be at least 1 when rate limiting is enabled")
	}
	return c.Database.Validate()
}

// Validate checks that the selected driver has what it needs to connect.
func (d DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if d.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", d.Driver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
