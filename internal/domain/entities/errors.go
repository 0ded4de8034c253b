package entities

import (
	"errors"
	"fmt"
)

// Domain errors. Callers match them with errors.Is.
var (
	ErrInvalidConfig       = errors.New("invalid split configuration")
	ErrEmptyDocumentPath   = errors.New("document path is empty")
	ErrUnsupportedStrategy = errors.New("unsupported splitter strategy")
	ErrDocumentTooLarge    = errors.New("document exceeds maximum size")
)

// ConfigurationError describes which split setting was rejected.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}
