package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

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
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// S3 configuration
	S3Bucket  string
	AWSRegion string
}

// LoadConfig builds a Config from environment variables. Sensitive values
// fall back to Docker secret files when the variable is unset, so the same
// binary runs in CI (plain env) and in compose deployments (secrets).
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnvOrSecret("DB_USER", "db_user", "postgres"),
		DBName:    getEnv("DB_NAME", "foodgram"),
		DBSSLMode: getEnv("DB_SSL_MODE", "disable"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisDB:   0,
		RedisURL:  getEnv("REDIS_URL", ""),

		S3Bucket:  getEnv("S3_BUCKET_NAME", "foodgram-recipe-images"),
		AWSRegion: getEnv("AWS_REGION", ""),
	}

	cfg.DBPassword = getEnvOrSecret("DB_PASSWORD", "db_password", "")
	cfg.RedisPassword = getEnvOrSecret("REDIS_PASSWORD", "redis_password", "")
	cfg.JWTSecret = getEnvOrSecret("JWT_SECRET", "jwt_secret", "")

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvOrSecret reads an environment variable, then the matching Docker
// secret file, then the fallback.
func getEnvOrSecret(envKey, secretName, fallback string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if value := readSecret(secretName); value != "" {
		return value
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
