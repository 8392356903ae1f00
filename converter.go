package word2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/alnah/go-word2pdf/internal/assets"
	"github.com/alnah/go-word2pdf/internal/fileutil"
	"github.com/alnah/go-word2pdf/internal/layout"
)

// Converter dispatches Word documents to a conversion strategy.
// Create with NewConverter(), use Convert() for conversion, and Close() when
// done. Conversions are meant to run one at a time.
type Converter struct {
	cfg    converterConfig
	logger hclog.Logger

	engine            printEngine
	library           documentRenderer
	external          documentRenderer
	externalAvailable *bool

	mu             sync.Mutex
	preferExternal bool
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithPreferExternal, WithPageSettings).
// Returns error if page settings are invalid, assets cannot be loaded, or the
// automation script cannot be extracted while the external strategy is
// preferred.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:     defaultTimeout,
			fallback:    FallbackSticky,
			interpreter: DefaultInterpreter,
			page:        DefaultPageSettings(),
			style:       assets.DefaultStyleName,
		},
		logger: hclog.NewNullLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.page.Validate(); err != nil {
		return nil, err
	}

	loader, err := c.newLoader()
	if err != nil {
		return nil, err
	}
	lay, err := c.newLayout(loader)
	if err != nil {
		return nil, err
	}
	script, err := c.newAutomation(loader)
	if err != nil {
		return nil, err
	}

	// Create print engine if not injected (e.g., by tests)
	if c.engine == nil {
		c.engine = newRodEngine(c.cfg.timeout)
	}

	c.library = &libraryRenderer{
		layout:      lay,
		engine:      c.engine,
		page:        c.cfg.page,
		pageNumbers: c.cfg.pageNumbers,
		logger:      c.logger.Named("library"),
	}

	if c.external == nil {
		c.external = newExternalRenderer(c.cfg.interpreter, c.cfg.externalTimeout, script, c.logger.Named("external"))
	}
	if c.externalAvailable == nil {
		available := externalSupported()
		c.externalAvailable = &available
	}

	prefer := *c.externalAvailable
	if c.cfg.preferExternal != nil {
		prefer = *c.cfg.preferExternal
	}
	if prefer && !*c.externalAvailable {
		c.logger.Warn("external conversion is not available, using library conversion", "os", runtime.GOOS)
		prefer = false
	}
	c.preferExternal = prefer

	if prefer {
		if p, ok := c.external.(interface{ prepare() error }); ok {
			if err := p.prepare(); err != nil {
				_ = c.engine.Close()
				return nil, err
			}
		}
	}

	c.logger.Debug("converter ready",
		"prefer_external", prefer,
		"fallback", c.cfg.fallback,
		"page_size", c.cfg.page.Size,
		"style", c.cfg.style)

	return c, nil
}

// newLoader returns the embedded assets, overlaid by the asset directory
// when one is configured.
func (c *Converter) newLoader() (assets.Loader, error) {
	if c.cfg.assetPath == "" {
		return assets.NewEmbeddedLoader(), nil
	}
	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver, nil
}

// newAutomation returns the shared built-in script, or a converter-owned one
// when an asset directory is configured, so that it can override the script.
func (c *Converter) newAutomation(loader assets.Loader) (*automation, error) {
	if c.cfg.assetPath == "" {
		return wordAutomation, nil
	}
	content, err := loader.LoadScript(assets.ScriptName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return newAutomation(assets.ScriptName, content), nil
}

// newLayout loads the style and document template for .doc layout.
func (c *Converter) newLayout(loader assets.Loader) (*layout.Layout, error) {
	lay, err := layout.New(loader, c.cfg.style, assets.DocumentTemplateName)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, c.cfg.style)
		}
		return nil, fmt.Errorf("initializing layout: %w", err)
	}
	return lay, nil
}

// PrefersExternal reports whether the next conversion will try the external
// strategy first.
func (c *Converter) PrefersExternal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preferExternal
}

// downgrade applies the fallback policy after a failed external attempt.
func (c *Converter) downgrade() {
	if c.cfg.fallback != FallbackSticky {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.preferExternal {
		c.preferExternal = false
		c.logger.Warn("switching to library conversion for the remaining files")
	}
}

// Convert converts the Word document at src to a PDF at dst.
// The external strategy gets at most one attempt; when it produces no file
// the library strategy is used and Result.FellBack is set. Every failure is
// returned as *ConversionError, and a file already at dst is then put back.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, src, dst string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ConversionError{Source: src, Err: fmt.Errorf("internal error: %v", r)}
		}
	}()

	start := time.Now()

	req, err := NewRequest(src, dst)
	if err != nil {
		return nil, &ConversionError{Source: src, Err: err}
	}
	if req.Format == FormatUnknown {
		return nil, &ConversionError{
			Source: req.Source,
			Err:    fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(req.Source)),
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, &ConversionError{Source: req.Source, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(req.Destination), 0o750); err != nil {
		return nil, &ConversionError{
			Source: req.Source,
			Err:    fmt.Errorf("%w: creating output directory: %v", ErrWritePDF, err),
		}
	}

	// An existing PDF survives a conversion that produces nothing.
	restore, discard, err := fileutil.MoveAside(req.Destination)
	if err != nil {
		return nil, &ConversionError{
			Source: req.Source,
			Err:    fmt.Errorf("%w: %v", ErrWritePDF, err),
		}
	}
	defer func() {
		if result != nil {
			_ = discard()
			return
		}
		if rerr := restore(); rerr != nil {
			c.logger.Warn("could not restore previous output", "destination", req.Destination, "error", rerr)
		}
	}()

	strategy := SelectStrategy(c.PrefersExternal(), *c.externalAvailable)
	c.logger.Debug("converting", "source", req.Source, "destination", req.Destination, "strategy", strategy)

	res := &Result{Source: req.Source, Destination: req.Destination, Strategy: strategy}

	var externalErr error
	if strategy == StrategyExternal {
		externalErr = c.external.Render(ctx, req)
		if externalErr == nil {
			return c.finish(res, start), nil
		}
		if ctx.Err() != nil {
			return nil, &ConversionError{Source: req.Source, Err: externalErr}
		}

		c.logger.Warn("external conversion failed, falling back to library conversion",
			"source", req.Source, "error", externalErr)
		c.downgrade()

		strategy, _ = NextStrategy(strategy)
		res.Strategy = strategy
		res.FellBack = true
	}

	if err := c.library.Render(ctx, req); err != nil {
		if externalErr != nil {
			err = errors.Join(externalErr, err)
		}
		return nil, &ConversionError{Source: req.Source, Err: err}
	}

	return c.finish(res, start), nil
}

// finish records duration and page count.
func (c *Converter) finish(res *Result, start time.Time) *Result {
	res.Duration = time.Since(start)

	pages, err := pageCount(res.Destination)
	if err != nil {
		c.logger.Debug("could not read page count", "destination", res.Destination, "error", err)
	} else {
		res.Pages = pages
		c.logger.Debug("converted", "destination", res.Destination, "pages", pages, "duration", res.Duration)
	}
	return res
}

// Close releases browser resources. Safe to call multiple times.
func (c *Converter) Close() error {
	if c.engine != nil {
		return c.engine.Close()
	}
	return nil
}
