package main

import (
	"errors"
	"os"

	word2pdf "github.com/alnah/go-word2pdf"
	"github.com/alnah/go-word2pdf/internal/config"
)

// Exit codes for word2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // All files converted
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or validation
	ExitIO         = 3 // File not found, permission denied
	ExitBrowser    = 4 // Browser/Chrome errors
	ExitConversion = 5 // At least one document failed to convert
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, word2pdf.ErrBrowserConnect) ||
		errors.Is(err, word2pdf.ErrPageCreate) ||
		errors.Is(err, word2pdf.ErrPageLoad) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, word2pdf.ErrInvalidPageSize) ||
		errors.Is(err, word2pdf.ErrInvalidOrientation) ||
		errors.Is(err, word2pdf.ErrInvalidMargin) ||
		errors.Is(err, word2pdf.ErrInvalidFallback) ||
		errors.Is(err, word2pdf.ErrStyleNotFound) ||
		errors.Is(err, word2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, ErrConflictingFlags) ||
		errors.Is(err, ErrNotWordDocument) {
		return ExitUsage
	}

	// Per-file conversion failures (exit 5)
	if errors.Is(err, ErrConversionFailed) {
		return ExitConversion
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, word2pdf.ErrWritePDF) ||
		errors.Is(err, word2pdf.ErrNoDestination) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoOutput) {
		return ExitIO
	}

	return ExitGeneral
}
