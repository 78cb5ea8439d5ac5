package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPriorResult means no qualifying prior call carried a structured result.
	ErrNoPriorResult = errors.New("no prior structured result")
	// ErrCallBlocked means the placement policy refused an outbound call.
	ErrCallBlocked = errors.New("call blocked by policy")
)

// ConfigurationError reports required inputs that are missing or empty.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// PlatformError reports a failed exchange with the voice platform.
type PlatformError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *PlatformError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("platform %s failed [%d]: %s", e.Op, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("platform %s failed: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("platform %s failed: %s", e.Op, e.Message)
	}
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsPlatformError reports whether err is or wraps a PlatformError.
func IsPlatformError(err error) bool {
	var platErr *PlatformError
	return errors.As(err, &platErr)
}
