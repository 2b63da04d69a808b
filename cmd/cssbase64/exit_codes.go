package main

import (
	"errors"
	"os"

	cssbase64 "github.com/alnah/go-cssbase64"
	"github.com/alnah/go-cssbase64/internal/config"
)

// Exit codes for the cssbase64 CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents processed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteCSS) ||
		errors.Is(err, ErrOutputDir) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrDotEnv) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, cssbase64.ErrInvalidMaxWeight) ||
		errors.Is(err, cssbase64.ErrInvalidExtension) ||
		errors.Is(err, cssbase64.ErrInvalidPattern) ||
		errors.Is(err, cssbase64.ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}
