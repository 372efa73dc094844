package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "watch.poll_interval_seconds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateWatch()...)
	errors = append(errors, c.validateNotifications()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateWatch() []ValidationError {
	var errors []ValidationError

	if c.Watch.PollIntervalSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "watch.poll_interval_seconds",
			Value:   c.Watch.PollIntervalSeconds,
			Message: "must be at least 1",
		})
	}

	if c.Watch.StalenessCycles < 1 {
		errors = append(errors, ValidationError{
			Field:   "watch.staleness_cycles",
			Value:   c.Watch.StalenessCycles,
			Message: "must be at least 1",
		})
	}

	if len(c.Watch.ProcessNames) == 0 {
		errors = append(errors, ValidationError{
			Field:   "watch.process_names",
			Value:   c.Watch.ProcessNames,
			Message: "must list at least one executable name",
		})
	}
	for _, name := range c.Watch.ProcessNames {
		if strings.TrimSpace(name) == "" {
			errors = append(errors, ValidationError{
				Field:   "watch.process_names",
				Value:   name,
				Message: "executable names must not be empty",
			})
			break
		}
	}

	if c.Watch.ReadLength < 256 {
		errors = append(errors, ValidationError{
			Field:   "watch.read_length",
			Value:   c.Watch.ReadLength,
			Message: "must be at least 256 cells",
		})
	}

	return errors
}

func (c *Config) validateNotifications() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Notifications.AppName) == "" {
		errors = append(errors, ValidationError{
			Field:   "notifications.app_name",
			Value:   c.Notifications.AppName,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must not be negative",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must not be negative",
		})
	}

	return errors
}
