package model

import (
	"errors"
	"fmt"
)

// Error codes for configuration errors.
//
// Structural errors (E0xx) cover definition units that do not satisfy the
// contract. Identity errors (E1xx) cover name collisions and malformed
// qualified names. Option errors (E2xx) cover the merge stage. Resolution
// errors (E3xx) cover environment lookups and dependency ordering.
const (
	// Structural errors (E001-E099)
	ErrMissingPrepare  = "E001" // repository definition exposes no prepare entry point
	ErrMissingCallback = "E002" // module definition missing init, prepare, or build
	ErrRepoNameUnset   = "E003" // prepare(repo) completed without setting a name
	ErrModuleNameUnset = "E004" // init(module) completed without setting a name
	ErrUnitLoad        = "E005" // reading or executing a definition unit failed

	// Identity errors (E101-E199)
	ErrDuplicateRepo   = "E101" // two repositories registered under the same name
	ErrDuplicateModule = "E102" // qualified module name already registered
	ErrDuplicateOption = "E103" // option name already declared in this repository
	ErrMalformedName   = "E104" // wrong number of ':'-separated components

	// Option errors (E201-E299)
	ErrUnknownOption = "E201" // override names a repository or option that does not exist
	ErrOptionUnset   = "E202" // option left without a value after merge

	// Resolution errors (E301-E399)
	ErrUnknownModule   = "E301" // qualified name has no environment entry
	ErrDependencyCycle = "E302" // dependency cycle prevents a build order
)

// ConfigError is the single reportable error kind for the assembly core.
// Every fatal condition, structural or otherwise, is surfaced as a
// ConfigError carrying a code and a human-readable message. Underlying
// I/O and parse errors are wrapped, not swallowed.
type ConfigError struct {
	Code    string // one of the Err* constants above
	Message string // human-readable description naming the offending entity
	Err     error  // underlying cause, if any
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Errf creates a ConfigError with a formatted message.
func Errf(code, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapErr wraps an underlying error in a ConfigError, preserving its text.
func WrapErr(code, message string, err error) *ConfigError {
	return &ConfigError{Code: code, Message: message, Err: err}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ErrorCode extracts the code from a ConfigError, or "" for other errors.
func ErrorCode(err error) string {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
