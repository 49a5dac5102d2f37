package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Public base URL used in activation links
	AppBaseURL string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// SMTP configuration for account activation mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// LoadConfig builds a Config from environment variables, falling back to
// Docker secrets for sensitive values that are not set in the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: envOr("SERVER_PORT", "8080"),
		ServerHost: envOr("SERVER_HOST", "0.0.0.0"),
		AppBaseURL: envOr("APP_BASE_URL", "http://localhost:8080"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOrSecret("DB_USER", "db_user"),
		DBPassword: envOrSecret("DB_PASSWORD", "db_password"),
		DBName:     envOr("DB_NAME", "newcooks"),
		DBSSLMode:  envOr("DB_SSL_MODE", "disable"),

		RedisHost:     envOr("REDIS_HOST", "localhost"),
		RedisPort:     envOr("REDIS_PORT", "6379"),
		RedisPassword: envOrSecret("REDIS_PASSWORD", "redis_password"),

		JWTSecret: envOrSecret("JWT_SECRET", "jwt_secret"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUsername: envOrSecret("SMTP_USERNAME", "smtp_username"),
		SMTPPassword: envOrSecret("SMTP_PASSWORD", "smtp_password"),
		SMTPFrom:     envOr("SMTP_FROM", "no-reply@newcooks.app"),
	}

	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", port, err)
		}
		cfg.SMTPPort = p
	} else {
		cfg.SMTPPort = 587
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", db, err)
		}
		cfg.RedisDB = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrSecret prefers the environment variable and falls back to a Docker
// secret file of the given name.
func envOrSecret(envKey, secretName string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
