package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// remoteAttempts is how many quote requests one resolution may issue.
const remoteAttempts = 2

// validate is the package-level validator instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(storageStructLevel, StorageConfig{})

	return v
}

// storageStructLevel requires the selected backend's own settings.
func storageStructLevel(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(StorageConfig)
	if !ok {
		return
	}

	if s.Backend == StorageBackendSQLite && strings.TrimSpace(s.SQLite.Path) == "" {
		sl.ReportError(s.SQLite.Path, "SQLite.Path", "Path", "required_with_backend", StorageBackendSQLite)
	}
}

// Validate validates the configuration and returns an error if invalid.
// Validation fails fast - the service should not start with invalid config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if c.Quotes.FetchTimeout > c.Client.Timeout {
		return fmt.Errorf("config validation failed:\n  quotes.fetchtimeout (%s) must not exceed client.timeout (%s)",
			c.Quotes.FetchTimeout, c.Client.Timeout)
	}

	// Both remote attempts of one quote request must fit inside the
	// /api/v1 deadline, or the catalog fallback never gets to run.
	if minimum := remoteAttempts * c.Quotes.FetchTimeout; c.Server.RequestTimeout < minimum {
		return fmt.Errorf("config validation failed:\n  server.requesttimeout (%s) must be at least %d x quotes.fetchtimeout (%s)",
			c.Server.RequestTimeout, remoteAttempts, minimum)
	}

	return nil
}

// formatValidationErrors converts validator errors to a readable format.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, formatFieldError(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "required_with_backend":
		return fmt.Sprintf("%s is required for the %s backend", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath converts "Config.Server.Port" to "server.port".
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}
