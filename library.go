package word2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/alnah/go-word2pdf/internal/document"
	"github.com/alnah/go-word2pdf/internal/fileutil"
	"github.com/alnah/go-word2pdf/internal/layout"
	"github.com/alnah/go-word2pdf/internal/msdoc"
	"github.com/alnah/go-word2pdf/internal/pdfgen"
	"github.com/alnah/go-word2pdf/internal/wordml"
)

// documentRenderer writes the PDF for a request to its destination.
type documentRenderer interface {
	Render(ctx context.Context, req *Request) error
}

// Compile-time interface checks
var (
	_ documentRenderer = (*libraryRenderer)(nil)
	_ documentRenderer = (*externalRenderer)(nil)
)

// libraryRenderer converts documents in-process. Legacy .doc files go
// through HTML layout and the print engine; .docx files are drawn directly.
type libraryRenderer struct {
	layout      *layout.Layout
	engine      printEngine
	page        *PageSettings
	pageNumbers bool
	logger      hclog.Logger
}

// Render converts req and writes the PDF. Nothing is written unless the
// whole pipeline succeeds.
func (r *libraryRenderer) Render(ctx context.Context, req *Request) error {
	var (
		pdf []byte
		err error
	)
	switch req.Format {
	case FormatDoc:
		pdf, err = r.renderDoc(ctx, req)
	case FormatDocx:
		pdf, err = r.renderDocx(req)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(req.Source))
	}
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// #nosec G306 -- PDF output files are intended to be readable
	if err := fileutil.WriteFileAtomic(req.Destination, pdf, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return nil
}

func (r *libraryRenderer) renderDoc(ctx context.Context, req *Request) ([]byte, error) {
	doc, err := msdoc.ParseFile(req.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	r.logger.Debug("parsed document", "format", req.Format, "blocks", len(doc.Blocks))

	markup, err := r.layout.Render(ctx, doc, documentTitle(doc, req.Source))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrTransform, err)
	}

	pdf, err := r.engine.Print(ctx, markup, &printOptions{Page: r.page, PageNumbers: r.pageNumbers})
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, ErrRender) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return pdf, nil
}

func (r *libraryRenderer) renderDocx(req *Request) ([]byte, error) {
	info, err := os.Stat(req.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	doc, err := wordml.ParseFile(req.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	r.logger.Debug("parsed document", "format", req.Format, "blocks", len(doc.Blocks))

	pdf, err := pdfgen.RenderBytes(doc, pdfgen.Options{
		PageSize:     normalizePageSize(r.page.Size),
		Landscape:    r.page.landscape(),
		Margin:       r.page.Margin,
		PageNumbers:  r.pageNumbers,
		Title:        documentTitle(doc, req.Source),
		CreationDate: info.ModTime(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return pdf, nil
}

// documentTitle returns the document's own title, else the source file name
// without its extension.
func documentTitle(doc *document.Document, source string) string {
	if t := strings.TrimSpace(doc.Title); t != "" {
		return t
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
