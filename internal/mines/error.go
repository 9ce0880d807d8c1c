package mines

import (
	"errors"
	"fmt"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigError reports the first settings field that failed validation.
type ConfigError struct {
	Field string
	Value int
}

// [ConfigError] implements [error]
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %d", e.Field, e.Value)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}
