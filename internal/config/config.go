// Package config loads and validates the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-word2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096 // Directory and asset paths
	MaxInterpreterLength = 260  // Windows MAX_PATH
	MaxStyleLength       = 100  // Style name
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxDurationLength    = 20   // "90s", "2m30s"
)

// Fallback policy names.
const (
	FallbackSticky  = "sticky"
	FallbackPerFile = "per-file"
)

// Config holds all configuration for document conversion.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Conversion ConversionConfig `yaml:"conversion"`
	CSS        CSSConfig        `yaml:"css"`
	Assets     AssetsConfig     `yaml:"assets"`
	Page       PageConfig       `yaml:"page"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = must specify)
}

// ConversionConfig selects and tunes the conversion strategy.
type ConversionConfig struct {
	UseExternal *bool  `yaml:"useExternal"` // nil = platform default
	Interpreter string `yaml:"interpreter"` // Automation script host (default: "cscript")
	Fallback    string `yaml:"fallback"`    // "sticky" or "per-file" (default: "sticky")
	Timeout     string `yaml:"timeout"`     // Go duration for the print engine
	FailFast    bool   `yaml:"failFast"`    // Stop the batch at the first failure
}

// CSSConfig defines CSS styling options for legacy documents.
type CSSConfig struct {
	Style string `yaml:"style"` // Name of style in internal/assets/styles/ (empty = default)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
	PageNumbers bool    `yaml:"pageNumbers"` // "n/total" footer
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"conversion.interpreter", c.Conversion.Interpreter, MaxInterpreterLength},
		{"conversion.timeout", c.Conversion.Timeout, MaxDurationLength},
		{"css.style", c.CSS.Style, MaxStyleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Conversion.Fallback != "" {
		switch strings.ToLower(c.Conversion.Fallback) {
		case FallbackSticky, FallbackPerFile:
			// valid
		default:
			return fmt.Errorf("%w: conversion.fallback %q (must be %s or %s)",
				ErrInvalidValue, c.Conversion.Fallback, FallbackSticky, FallbackPerFile)
		}
	}

	if c.Conversion.Timeout != "" {
		d, err := time.ParseDuration(c.Conversion.Timeout)
		if err != nil {
			return fmt.Errorf("%w: conversion.timeout %q: %v", ErrInvalidValue, c.Conversion.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: conversion.timeout must be positive, got %s", ErrInvalidValue, d)
		}
	}

	if c.Page.Margin < 0 {
		return fmt.Errorf("%w: page.margin must not be negative, got %.2f", ErrInvalidValue, c.Page.Margin)
	}

	return nil
}

// TimeoutDuration returns the parsed conversion timeout, 0 when unset.
// Call Validate first; an unparsable value also yields 0.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Conversion.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Encode returns c as YAML in the format LoadConfig reads.
func (c *Config) Encode() ([]byte, error) {
	return yamlutil.Encode(c)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: every field is left empty
// so environment variables can fill it. Empty values mean the library
// defaults (platform strategy, sticky fallback, embedded assets).
func DefaultConfig() *Config {
	return &Config{
		Input:      InputConfig{DefaultDir: ""},
		Output:     OutputConfig{DefaultDir: ""},
		Conversion: ConversionConfig{UseExternal: nil, Fallback: ""},
		CSS:        CSSConfig{Style: ""},
		Assets:     AssetsConfig{BasePath: ""},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the locations tried for a config name, in order:
// the current directory, then <UserConfigDir>/go-word2pdf/, each with
// .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-word2pdf", name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
