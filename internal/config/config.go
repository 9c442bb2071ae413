// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8000).
	Port int

	// Domain is the public-facing host used to build verification and
	// password-reset links sent by email.
	Domain string

	// Database holds MariaDB connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// JWT holds token signing settings.
	JWT JWTConfig

	// Mail holds SMTP settings for outbound email.
	Mail MailConfig
}

// DatabaseConfig holds MariaDB connection parameters. Individual fields
// (Host, User, Password, Name) are read from separate env vars so container
// orchestrators can manage each independently. If DATABASE_URL is set, it
// takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format (default: "localhost:3306").
	// If no port is specified, 3306 is appended automatically.
	Host string

	// User is the MariaDB username (default: "bookly").
	User string

	// Password is the MariaDB password (default: "bookly").
	Password string

	// Name is the database name (default: "bookly").
	Name string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// Host/User/Password/Name fields using the driver's Config.FormatDSN()
// to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
// Allows users to set DB_HOST=mydb (gets :3306) or DB_HOST=mydb:3307 (as-is).
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// JWTConfig holds token signing settings. Access and refresh tokens share
// the secret and algorithm; only their lifetimes differ.
type JWTConfig struct {
	// Secret is the HMAC signing key for JWTs.
	Secret string

	// AccessTTL is the access-token lifetime. It is also the TTL of
	// revoked token ids in the Redis blocklist.
	AccessTTL time.Duration

	// RefreshTTL is the refresh-token lifetime.
	RefreshTTL time.Duration
}

// MailConfig holds SMTP settings for outbound email. Mirrors the usual
// provider settings: STARTTLS on 587 by default, implicit TLS on 465
// with SSL=true, or Encryption="none" for a local relay.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string

	// Encryption is "starttls", "ssl", or "none".
	Encryption string

	// QueueSize is the capacity of the outbound mail queue.
	QueueSize int
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is loaded first if
// present (never overrides real environment variables). Returns an error
// if required variables are missing.
func Load() (*Config, error) {
	// Ignore the error: a missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Env:    getEnv("ENV", "development"),
		Port:   getEnvInt("PORT", 8000),
		Domain: getEnv("DOMAIN", "localhost:8000"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "bookly"),
			Password:        getEnv("DB_PASSWORD", "bookly"),
			Name:            getEnv("DB_NAME", "bookly"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			AccessTTL:  getEnvDuration("ACCESS_TOKEN_TTL", time.Hour),
			RefreshTTL: getEnvDuration("REFRESH_TOKEN_TTL", 48*time.Hour),
		},

		Mail: MailConfig{
			Host:        getEnv("MAIL_SERVER", ""),
			Port:        getEnvInt("MAIL_PORT", 587),
			Username:    getEnv("MAIL_USERNAME", ""),
			Password:    getEnv("MAIL_PASSWORD", ""),
			FromAddress: getEnv("MAIL_FROM", "noreply@bookly.local"),
			FromName:    getEnv("MAIL_FROM_NAME", "Bookly"),
			Encryption:  getEnv("MAIL_ENCRYPTION", "starttls"),
			QueueSize:   getEnvInt("MAIL_QUEUE_SIZE", 64),
		},
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	envLower := strings.ToLower(cfg.Env)
	if envLower == "production" || envLower == "prod" {
		if cfg.JWT.Secret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		if len(cfg.JWT.Secret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
	}

	// Provide a dev-only default secret so local dev works without .env.
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret-key-do-not-use-in-production!!"
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "48h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
