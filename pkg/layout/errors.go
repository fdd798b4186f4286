package layout

import (
	"errors"
	"fmt"
)

// ErrConfig matches every ConfigError via errors.Is.
var ErrConfig = errors.New("invalid configuration")

// ConfigError reports a malformed layout or environment setting.
// It is fatal to the construction call that returned it.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ConfigErrorf builds a ConfigError for field with a formatted reason.
func ConfigErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
