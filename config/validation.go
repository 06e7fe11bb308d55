package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Development and test get permissive defaults; production
// must carry real credentials.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, "SERVER_PORT must not be empty")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		errs = append(errs, "database host, port and name are required")
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errs = append(errs, "db_password secret is required in production")
		}
		if cfg.JWTSecret == "" {
			errs = append(errs, "jwt_secret secret is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errs = append(errs, "DB_SSL_MODE must not be 'disable' in production")
		}
	}
	if cfg.JWTSecret == "" && !IsProduction() {
		// Local runs still need a signing key, just not a managed one.
		cfg.JWTSecret = "dev-only-secret"
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
