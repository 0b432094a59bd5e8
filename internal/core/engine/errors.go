package engine

import (
	"errors"
	"fmt"
)

// ErrQuotaExhausted signals that a method's call budget is used up. The
// method is skipped for the rest of the run, never retried.
var ErrQuotaExhausted = errors.New("method quota exhausted")

// ErrRunCancelled signals external cancellation. Dispatching stops;
// already-completed results remain valid.
var ErrRunCancelled = errors.New("run cancelled")

// ConfigError is a fatal method-selection or credential problem, surfaced
// before any resolution starts.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
