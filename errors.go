package word2pdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrParse             = errors.New("failed to parse document")
	ErrTransform         = errors.New("failed to lay out document")
	ErrRender            = errors.New("PDF generation failed")
	ErrWritePDF          = errors.New("failed to write PDF file")
	ErrNoDestination     = errors.New("destination directory not specified")

	// External automation errors.
	ErrScriptExtract       = errors.New("failed to extract automation script")
	ErrExternalConversion  = errors.New("external conversion failed")
	ErrExternalUnavailable = errors.New("external conversion is not available")

	// Print engine errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Option errors.
	ErrInvalidFallback  = errors.New("invalid fallback policy")
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// ConversionError reports a file that could not be converted.
type ConversionError struct {
	Source string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert the file: %s: %v", e.Source, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
