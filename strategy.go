package word2pdf

import (
	"fmt"
	"strings"
)

// Strategy selects how a document is converted.
type Strategy int

// Conversion strategies.
const (
	StrategyLibrary  Strategy = iota // in-process parsing and rendering
	StrategyExternal                 // Word automation through cscript
)

func (s Strategy) String() string {
	if s == StrategyExternal {
		return "external"
	}
	return "library"
}

// SelectStrategy returns StrategyExternal only when it is both preferred and
// available.
func SelectStrategy(preferExternal, available bool) Strategy {
	if preferExternal && available {
		return StrategyExternal
	}
	return StrategyLibrary
}

// NextStrategy returns the strategy to try after s failed, and whether there
// is one. The only transition is external to library.
func NextStrategy(s Strategy) (Strategy, bool) {
	if s == StrategyExternal {
		return StrategyLibrary, true
	}
	return StrategyLibrary, false
}

// FallbackPolicy controls what happens to the external preference after an
// external attempt fails.
type FallbackPolicy int

// Fallback policies.
const (
	// FallbackSticky uses the library strategy for the rest of the run.
	FallbackSticky FallbackPolicy = iota
	// FallbackPerFile tries the external strategy again on the next file.
	FallbackPerFile
)

func (p FallbackPolicy) String() string {
	if p == FallbackPerFile {
		return "per-file"
	}
	return "sticky"
}

// ParseFallbackPolicy parses "sticky" or "per-file" (case-insensitive).
// An empty string yields FallbackSticky.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sticky":
		return FallbackSticky, nil
	case "per-file":
		return FallbackPerFile, nil
	default:
		return FallbackSticky, fmt.Errorf("%w: %q (must be sticky or per-file)", ErrInvalidFallback, s)
	}
}
