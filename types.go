package word2pdf

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// landscape reports whether the orientation is landscape.
func (p *PageSettings) landscape() bool {
	return strings.EqualFold(p.Orientation, OrientationLandscape)
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// normalizePageSize returns the page size key used by pageDimensions.
func normalizePageSize(size string) string {
	return strings.ToLower(size)
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Format identifies the kind of Word document.
type Format int

// Supported source formats.
const (
	FormatUnknown Format = iota
	FormatDoc            // legacy binary .doc
	FormatDocx           // zipped XML .docx
)

func (f Format) String() string {
	switch f {
	case FormatDoc:
		return "doc"
	case FormatDocx:
		return "docx"
	default:
		return "unknown"
	}
}

// FormatOf returns the format for path's extension (case-insensitive).
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".doc":
		return FormatDoc
	case ".docx":
		return FormatDocx
	default:
		return FormatUnknown
	}
}

// Request describes a single conversion. Both paths are absolute.
type Request struct {
	Source      string
	Destination string
	Format      Format
}

// NewRequest builds a Request, making both paths absolute and deriving the
// format from the source extension.
func NewRequest(src, dst string) (*Request, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("resolving source path: %w", err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return nil, fmt.Errorf("resolving destination path: %w", err)
	}
	return &Request{
		Source:      absSrc,
		Destination: absDst,
		Format:      FormatOf(absSrc),
	}, nil
}

// Result reports a successful conversion.
type Result struct {
	Source      string
	Destination string
	Strategy    Strategy      // strategy that produced the file
	FellBack    bool          // external strategy failed first
	Pages       int           // 0 if the PDF could not be inspected
	Duration    time.Duration // wall time including any failed attempt
}
