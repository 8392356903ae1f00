// Package pdfgen draws the document model directly into a PDF with gofpdf.
// Text is set in the embedded Go fonts, which cover Latin, Greek and
// Cyrillic. Runes without a glyph in those fonts keep their place in the text
// but print blank.
package pdfgen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/alnah/go-word2pdf/internal/document"
)

// Sentinel errors for PDF generation.
var (
	ErrEmptyDocument = errors.New("no document to render")
	ErrRender        = errors.New("PDF output failed")
)

// Page geometry.
const (
	mmPerInch              = 25.4
	mmPerPoint             = 0.3528
	defaultMargin          = 0.5
	marginBottomWithFooter = 0.75
	lineSpacing            = 1.35
	cellPadding            = 1.5
	tabWidth               = 4
)

// Font sizes in points.
const (
	bodySize   = 11.0
	footerSize = 9.0
)

var headingSizes = [...]float64{0, 18, 15, 13, 12, 12, 12}

// fontFamily is the name the embedded fonts are registered under.
const fontFamily = "go"

// maxFontRune is the highest rune gofpdf's UTF-8 width tables can index.
const maxFontRune = 0xFFFF

// fontFaces maps gofpdf style strings to TrueType data.
var fontFaces = []struct {
	style string
	ttf   []byte
}{
	{"", goregular.TTF},
	{"B", gobold.TTF},
	{"I", goitalic.TTF},
	{"BI", gobolditalic.TTF},
}

// Options configures page layout and metadata.
type Options struct {
	PageSize    string  // "letter", "a4", "legal"; empty means letter
	Landscape   bool    // rotate the page
	Margin      float64 // inches, applied to all sides; 0 means 0.5
	PageNumbers bool    // draw "n/total" in the footer
	Title       string  // PDF metadata title

	// CreationDate is written to the PDF metadata. Set it to the source
	// modification time for reproducible output; zero means now.
	CreationDate time.Time
}

// Render writes doc as PDF to w.
func Render(doc *document.Document, w io.Writer, opts Options) error {
	if doc == nil {
		return ErrEmptyDocument
	}

	r := newRenderer(opts)
	r.pdf.AddPage()
	for _, b := range doc.Blocks {
		switch v := b.(type) {
		case document.Paragraph:
			r.paragraph(v)
		case document.Table:
			r.table(v)
		case document.PageBreak:
			r.pdf.AddPage()
		}
		if r.pdf.Err() {
			break
		}
	}

	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// RenderBytes returns doc as PDF bytes.
func RenderBytes(doc *document.Document, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(doc, &buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// Renderer
// ---------------------------------------------------------------------------

type renderer struct {
	pdf    *gofpdf.Fpdf
	family string
}

func newRenderer(opts Options) *renderer {
	orientation := "P"
	if opts.Landscape {
		orientation = "L"
	}
	size := opts.PageSize
	if size == "" {
		size = "letter"
	}
	family := fontFamily
	margin := opts.Margin
	if margin <= 0 {
		margin = defaultMargin
	}
	bottom := margin
	if opts.PageNumbers && bottom < marginBottomWithFooter {
		bottom = marginBottomWithFooter
	}

	pdf := gofpdf.New(orientation, "mm", size, "")
	pdf.SetMargins(margin*mmPerInch, margin*mmPerInch, margin*mmPerInch)
	pdf.SetAutoPageBreak(true, bottom*mmPerInch)
	pdf.SetCreator("go-word2pdf", true)
	pdf.SetCatalogSort(true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if !opts.CreationDate.IsZero() {
		pdf.SetCreationDate(opts.CreationDate)
	}

	// The page alias must be known before fonts are registered: gofpdf
	// sizes the UTF-8 subset from it.
	if opts.PageNumbers {
		pdf.AliasNbPages("")
	}
	for _, face := range fontFaces {
		pdf.AddUTF8FontFromBytes(family, face.style, face.ttf)
	}

	r := &renderer{pdf: pdf, family: family}

	if opts.PageNumbers {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-(bottom * mmPerInch) + 2)
			pdf.SetFont(family, "", footerSize)
			pdf.CellFormat(0, footerSize*mmPerPoint*lineSpacing,
				strconv.Itoa(pdf.PageNo())+"/{nb}", "", 0, "C", false, 0, "")
		})
	}

	pdf.SetFont(family, "", bodySize)
	return r
}

func lineHeight(size float64) float64 {
	return size * mmPerPoint * lineSpacing
}

// text expands tabs and replaces runes beyond the font width tables.
func (r *renderer) text(s string) string {
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	return strings.Map(func(c rune) rune {
		if c > maxFontRune {
			return utf8.RuneError
		}
		return c
	}, s)
}

func (r *renderer) contentWidth() float64 {
	w, _ := r.pdf.GetPageSize()
	left, _, right, _ := r.pdf.GetMargins()
	return w - left - right
}

func runStyle(bold, italic, underline bool) string {
	var s string
	if bold {
		s += "B"
	}
	if italic {
		s += "I"
	}
	if underline {
		s += "U"
	}
	return s
}

// ---------------------------------------------------------------------------
// Paragraphs
// ---------------------------------------------------------------------------

func (r *renderer) paragraph(p document.Paragraph) {
	size := bodySize
	if p.Heading >= 1 && p.Heading < len(headingSizes) {
		size = headingSizes[p.Heading]
	}
	lh := lineHeight(size)

	if p.Heading > 0 {
		r.pdf.Ln(lh * 0.5)
	}

	switch {
	case p.Text() == "":
		r.pdf.Ln(lh)
	case p.Heading > 0 || p.Align != document.AlignLeft:
		r.alignedParagraph(p, size, lh)
	default:
		r.flowParagraph(p, size, lh)
	}

	r.pdf.Ln(lh * 0.4)
}

// flowParagraph writes left-aligned runs inline, each in its own style.
func (r *renderer) flowParagraph(p document.Paragraph, size, lh float64) {
	for _, run := range p.Runs {
		if run.Text == "" {
			continue
		}
		r.pdf.SetFont(r.family, runStyle(run.Bold, run.Italic, run.Underline), size)
		r.pdf.Write(lh, r.text(run.Text))
	}
	r.pdf.Ln(lh)
	r.pdf.SetFont(r.family, "", bodySize)
}

// alignedParagraph draws the paragraph as one block. Aligned text cannot mix
// styles in gofpdf, so the style common to every run is used.
func (r *renderer) alignedParagraph(p document.Paragraph, size, lh float64) {
	bold, italic, underline := true, true, true
	for _, run := range p.Runs {
		if run.Text == "" {
			continue
		}
		bold = bold && run.Bold
		italic = italic && run.Italic
		underline = underline && run.Underline
	}
	if p.Heading > 0 {
		bold = true
	}

	r.pdf.SetFont(r.family, runStyle(bold, italic, underline), size)
	r.pdf.MultiCell(0, lh, r.text(p.Text()), "", alignString(p.Align), false)
	r.pdf.SetFont(r.family, "", bodySize)
}

func alignString(a document.Alignment) string {
	switch a {
	case document.AlignCenter:
		return "C"
	case document.AlignRight:
		return "R"
	case document.AlignJustify:
		return "J"
	default:
		return "L"
	}
}

// ---------------------------------------------------------------------------
// Tables
// ---------------------------------------------------------------------------

func (r *renderer) table(t document.Table) {
	cols := t.Columns()
	if cols == 0 {
		return
	}

	left, _, _, _ := r.pdf.GetMargins()
	_, pageH := r.pdf.GetPageSize()
	_, _, _, bottom := r.pdf.GetMargins()
	colW := r.contentWidth() / float64(cols)
	lh := lineHeight(bodySize)

	r.pdf.SetFont(r.family, "", bodySize)
	r.pdf.SetLineWidth(0.2)

	for _, row := range t.Rows {
		if len(row.Cells) == 0 {
			continue
		}

		widths := make([]float64, len(row.Cells))
		texts := make([]string, len(row.Cells))
		maxLines := 1
		for i, cell := range row.Cells {
			widths[i] = colW
			if i == len(row.Cells)-1 {
				widths[i] = colW * float64(cols-len(row.Cells)+1)
			}
			texts[i] = r.text(cell.Text())
			n := len(r.pdf.SplitText(texts[i], widths[i]-2*cellPadding))
			if n > maxLines {
				maxLines = n
			}
		}
		h := float64(maxLines)*lh + 2*cellPadding

		y := r.pdf.GetY()
		if y+h > pageH-bottom {
			r.pdf.AddPage()
			y = r.pdf.GetY()
		}

		x := left
		for i := range row.Cells {
			r.pdf.Rect(x, y, widths[i], h, "D")
			r.pdf.SetXY(x+cellPadding, y+cellPadding)
			r.pdf.MultiCell(widths[i]-2*cellPadding, lh, texts[i], "", "L", false)
			x += widths[i]
		}
		r.pdf.SetXY(left, y+h)
	}

	r.pdf.Ln(lh * 0.4)
}
