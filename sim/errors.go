package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig classifies every invalid-parameter error. Configuration errors
	// are reported before any simulation runs.
	ErrConfig = errors.New("configuration error")

	// ErrInvariant classifies internal scheduling violations (time moving
	// backward, resource over-allocation). They abort the run.
	ErrInvariant = errors.New("invariant violation")
)

// ConfigError reports an invalid parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrConfig, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfig) hold for every ConfigError.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation is raised (as a panic) by the kernel when its ordering or
// allocation guarantees break. Simulator.Run recovers it and returns it.
type InvariantViolation struct {
	Clock  float64
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%v at t=%.6f: %s", ErrInvariant, e.Clock, e.Reason)
}

// Is makes errors.Is(err, ErrInvariant) hold for every InvariantViolation.
func (e *InvariantViolation) Is(target error) bool { return target == ErrInvariant }

func violate(clock float64, format string, args ...any) {
	panic(&InvariantViolation{Clock: clock, Reason: fmt.Sprintf(format, args...)})
}
