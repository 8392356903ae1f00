package word2pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-word2pdf/internal/fileutil"
	"github.com/alnah/go-word2pdf/internal/hints"
	"github.com/alnah/go-word2pdf/internal/process"
)

// printEngine turns paginated HTML markup into PDF bytes.
type printEngine interface {
	Print(ctx context.Context, markup string, opts *printOptions) ([]byte, error)
	Close() error
}

// Compile-time interface check
var _ printEngine = (*rodEngine)(nil)

// printOptions holds options for PDF generation.
type printOptions struct {
	Page        *PageSettings // nil = defaults
	PageNumbers bool
}

// pageDimensions maps page sizes to portrait width and height in inches.
var pageDimensions = map[string]struct{ width, height float64 }{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// footerMarginExtra is added to the bottom margin to fit the page numbers.
const footerMarginExtra = 0.25

const footerTemplate = `<div style="font-size: 9px; color: #777; width: 100%; text-align: center;">` +
	`<span class="pageNumber"></span>/<span class="totalPages"></span></div>`

// rodEngine implements printEngine using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodEngine struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

// newRodEngine creates a rodEngine with the given page load timeout.
func newRodEngine(timeout time.Duration) *rodEngine {
	return &rodEngine{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (e *rodEngine) ensureBrowser() error {
	if e.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || bin != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	e.launcher = l
	e.browser = browser
	return nil
}

// Print writes markup to a temporary file, opens it in headless Chrome and
// prints it to PDF.
func (e *rodEngine) Print(ctx context.Context, markup string, opts *printOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(markup, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return e.renderFromFile(ctx, tmpPath, opts)
}

// renderFromFile opens a local HTML file and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (e *rodEngine) renderFromFile(ctx context.Context, filePath string, opts *printOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := e.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrRender, err)
	}

	return pdfBuf, nil
}

// Close releases browser resources. Safe to call more than once.
func (e *rodEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if e.browser != nil {
		err = e.browser.Close()
		e.browser = nil
	}
	if e.launcher != nil {
		if pid := e.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		e.launcher.Kill()
		e.launcher = nil
	}
	return err
}

// buildPDFOptions constructs proto.PagePrintToPDF from page settings.
func buildPDFOptions(opts *printOptions) *proto.PagePrintToPDF {
	page := DefaultPageSettings()
	if opts != nil && opts.Page != nil {
		page = opts.Page
	}

	dims, ok := pageDimensions[normalizePageSize(page.Size)]
	if !ok {
		dims = pageDimensions[PageSizeLetter]
	}
	width, height := dims.width, dims.height
	if page.landscape() {
		width, height = height, width
	}

	margin := page.Margin
	marginBottom := margin
	hasFooter := opts != nil && opts.PageNumbers
	if hasFooter {
		marginBottom += footerMarginExtra
	}

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}

	if hasFooter {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>" // Empty header
		pdfOpts.FooterTemplate = footerTemplate
	}

	return pdfOpts
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
