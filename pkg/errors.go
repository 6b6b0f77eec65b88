package dff

import (
	"errors"
	"fmt"
)

var (
	// ErrNoValidRoots is returned when none of the requested roots is a readable directory
	ErrNoValidRoots = errors.New("no valid directories to scan")

	// ErrEmptyPattern is returned when compiling an empty exclusion pattern
	ErrEmptyPattern = errors.New("empty pattern")
)

// InvalidPatternError reports a malformed exclusion glob
type InvalidPatternError struct {
	Pattern string
	Reason  string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
	}
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// HashError reports a file that could not be opened or read while hashing
type HashError struct {
	Path string
	Mode HashMode
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("failed to %s hash %s: %v", e.Mode, e.Path, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// EnumerationError reports a directory or entry that could not be listed or stat'ed
type EnumerationError struct {
	Path string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("failed to enumerate %s: %v", e.Path, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// ConfigError reports a configuration key holding an unusable value
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config value %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
