package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidConfig    = errors.New("invalid simulation configuration")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrUnknownField     = errors.New("unknown field")
)

// ConfigError names the configuration field that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigError builds a ConfigError for field
func NewConfigError(field, reason string) error {
	return &ConfigError{Field: field, Reason: reason}
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
