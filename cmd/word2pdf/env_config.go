package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-word2pdf/internal/config"
)

// envPrefix is shared by every recognized environment variable.
const envPrefix = "WORD2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath  string        // WORD2PDF_CONFIG: config file path
	UseExternal *bool         // WORD2PDF_USE_EXTERNAL: try Word automation first
	Timeout     time.Duration // WORD2PDF_TIMEOUT: PDF generation timeout

	// Tier 2 - I/O
	InputDir  string // WORD2PDF_INPUT_DIR: default input directory
	OutputDir string // WORD2PDF_OUTPUT_DIR: default output directory

	// Tier 3 - Extended
	Interpreter string // WORD2PDF_INTERPRETER: automation script host
	Fallback    string // WORD2PDF_FALLBACK: sticky, per-file
	PageSize    string // WORD2PDF_PAGE_SIZE: a4, letter, legal
	Style       string // WORD2PDF_STYLE: .doc layout style
}

// knownEnvVars lists valid WORD2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"WORD2PDF_CONFIG":       true,
	"WORD2PDF_USE_EXTERNAL": true,
	"WORD2PDF_TIMEOUT":      true,
	// Tier 2 - I/O
	"WORD2PDF_INPUT_DIR":  true,
	"WORD2PDF_OUTPUT_DIR": true,
	// Tier 3 - Extended
	"WORD2PDF_INTERPRETER": true,
	"WORD2PDF_FALLBACK":    true,
	"WORD2PDF_PAGE_SIZE":   true,
	"WORD2PDF_STYLE":       true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable booleans and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:  getenv("WORD2PDF_CONFIG"),
		InputDir:    getenv("WORD2PDF_INPUT_DIR"),
		OutputDir:   getenv("WORD2PDF_OUTPUT_DIR"),
		Interpreter: getenv("WORD2PDF_INTERPRETER"),
		Fallback:    getenv("WORD2PDF_FALLBACK"),
		PageSize:    getenv("WORD2PDF_PAGE_SIZE"),
		Style:       getenv("WORD2PDF_STYLE"),
	}

	if v := getenv("WORD2PDF_USE_EXTERNAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseExternal = &b
		}
	}

	if timeout := getenv("WORD2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized WORD2PDF_* variables.
// Helps catch typos like WORD2PDF_OUTPUTDIR instead of WORD2PDF_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Strategy and timeout
	if env.UseExternal != nil && cfg.Conversion.UseExternal == nil {
		v := *env.UseExternal
		cfg.Conversion.UseExternal = &v
	}
	if env.Timeout > 0 && cfg.Conversion.Timeout == "" {
		cfg.Conversion.Timeout = env.Timeout.String()
	}

	// Tier 2 - I/O
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}

	// Tier 3 - Conversion
	if env.Interpreter != "" && cfg.Conversion.Interpreter == "" {
		cfg.Conversion.Interpreter = env.Interpreter
	}
	if env.Fallback != "" && cfg.Conversion.Fallback == "" {
		cfg.Conversion.Fallback = env.Fallback
	}

	// Tier 3 - Layout
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Style != "" && cfg.CSS.Style == "" {
		cfg.CSS.Style = env.Style
	}
}
