package word2pdf

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout         time.Duration
	externalTimeout time.Duration
	preferExternal  *bool // nil = platform default
	fallback        FallbackPolicy
	interpreter     string
	page            *PageSettings
	pageNumbers     bool
	style           string
	assetPath       string
}

// defaultTimeout bounds page loading in the print engine.
const defaultTimeout = 30 * time.Second

// DefaultInterpreter runs the automation script.
const DefaultInterpreter = "cscript"

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l hclog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout sets the print engine timeout used when the context has no
// deadline.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("word2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithExternalTimeout bounds each run of the automation script.
// Zero, the default, means no limit beyond the caller's context.
// Panics if d < 0.
func WithExternalTimeout(d time.Duration) Option {
	if d < 0 {
		panic("word2pdf: WithExternalTimeout duration must not be negative")
	}
	return func(c *Converter) {
		c.cfg.externalTimeout = d
	}
}

// WithPreferExternal overrides the platform default for the external
// strategy. Preferring it on a platform without Word automation logs a
// warning and uses the library strategy.
func WithPreferExternal(prefer bool) Option {
	return func(c *Converter) {
		c.cfg.preferExternal = &prefer
	}
}

// WithFallbackPolicy sets what happens after an external attempt fails.
func WithFallbackPolicy(p FallbackPolicy) Option {
	return func(c *Converter) {
		c.cfg.fallback = p
	}
}

// WithInterpreter sets the program that runs the automation script.
// An empty value keeps DefaultInterpreter.
func WithInterpreter(path string) Option {
	return func(c *Converter) {
		if path != "" {
			c.cfg.interpreter = path
		}
	}
}

// WithPageSettings sets page size, orientation, and margin for the library
// strategy. Nil keeps the defaults.
func WithPageSettings(p *PageSettings) Option {
	return func(c *Converter) {
		if p != nil {
			c.cfg.page = p
		}
	}
}

// WithPageNumbers adds a "n/total" footer to library output.
func WithPageNumbers(on bool) Option {
	return func(c *Converter) {
		c.cfg.pageNumbers = on
	}
}

// WithStyle selects the CSS style used to lay out .doc files.
func WithStyle(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.cfg.style = name
		}
	}
}

// WithAssetPath loads styles and templates from a directory, falling back
// to the embedded ones for names it does not contain.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// withPrintEngine replaces the headless Chrome engine.
func withPrintEngine(e printEngine) Option {
	return func(c *Converter) {
		c.engine = e
	}
}

// withExternal replaces the external renderer and its availability.
func withExternal(r documentRenderer, available bool) Option {
	return func(c *Converter) {
		c.external = r
		c.externalAvailable = &available
	}
}
