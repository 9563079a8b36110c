package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "host.root")
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

// ValidLogFormats returns the list of valid log formats
func ValidLogFormats() []string {
	return []string{"json", "text", "auto"}
}

// ValidRootKinds returns the list of valid root conductor kinds
func ValidRootKinds() []string {
	return []string{"one_active", "all_active", "conductor"}
}

// ValidCloseStrategies returns the list of valid close strategies
func ValidCloseStrategies() []string {
	return []string{"default", "force"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, oneOf("logging.level", c.Logging.Level, ValidLogLevels())...)
	errors = append(errors, oneOf("logging.format", c.Logging.Format, ValidLogFormats())...)
	errors = append(errors, oneOf("host.root", c.Host.Root, ValidRootKinds())...)
	errors = append(errors, oneOf("host.close_strategy", c.Host.CloseStrategy, ValidCloseStrategies())...)

	return errors
}

func oneOf(field, value string, valid []string) []ValidationError {
	if slices.Contains(valid, value) {
		return nil
	}
	return []ValidationError{{
		Field:   field,
		Value:   value,
		Message: "must be one of: " + strings.Join(valid, ", "),
	}}
}
