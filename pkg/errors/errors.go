// Package errors defines the sentinel errors shared across clearcache and
// small helpers for wrapping them with context.
package errors

import "fmt"

// Common error types.
var (
	// Setup errors.
	ErrInvalidRoot     = fmt.Errorf("root directory is not accessible")
	ErrUnknownCategory = fmt.Errorf("unknown cache category")
	ErrNoCategories    = fmt.Errorf("no cache categories selected")

	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")

	// Traversal errors.
	ErrIgnoreFileExists = fmt.Errorf("ignore file already exists")

	// Cleaning errors.
	ErrUnsafePath = fmt.Errorf("path failed the deletion safety check")

	// Docker errors.
	ErrDockerUnavailable = fmt.Errorf("docker is not available")
	ErrDockerPrune       = fmt.Errorf("docker prune failed")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
