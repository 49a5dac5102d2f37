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

// ValidateConfig checks that the values a running server cannot do without
// are present. Test and development environments get defaults for most of
// them, so only the true secrets are enforced.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.JWTSecret == "" {
		errors = append(errors, "jwt secret is required (JWT_SECRET or jwt_secret secret)")
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errors = append(errors, "database password is required in production (DB_PASSWORD or db_password secret)")
		}
		if cfg.SMTPHost == "" {
			errors = append(errors, "SMTP_HOST is required in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}
	return nil
}
