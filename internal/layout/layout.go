// Package layout turns the document model into a self-contained HTML page
// ready for a print engine: one block element per model block, page breaks
// as forced CSS breaks, and the selected stylesheet inlined.
package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"

	"github.com/alnah/go-word2pdf/internal/assets"
	"github.com/alnah/go-word2pdf/internal/document"
)

// Sentinel errors for layout operations.
var (
	ErrLoadAsset      = errors.New("loading layout asset")
	ErrParseTemplate  = errors.New("parsing document template")
	ErrRenderTemplate = errors.New("document template rendering failed")
)

// Layout renders documents with a fixed template and stylesheet.
type Layout struct {
	tmpl  *template.Template
	style template.CSS
}

// pageData is the value the document template is executed with.
type pageData struct {
	Title  string
	Style  template.CSS
	Blocks []template.HTML
}

// New loads the named style and template through loader.
func New(loader assets.Loader, styleName, templateName string) (*Layout, error) {
	css, err := loader.LoadStyle(styleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadAsset, err)
	}

	content, err := loader.LoadTemplate(templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadAsset, err)
	}

	tmpl, err := template.New(templateName).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseTemplate, err)
	}

	return &Layout{tmpl: tmpl, style: template.CSS(sanitizeCSS(css))}, nil
}

// Render returns the HTML page for doc. An empty title falls back to the
// document's own title.
func (l *Layout) Render(ctx context.Context, doc *document.Document, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if title == "" {
		title = doc.Title
	}

	data := pageData{
		Title:  title,
		Style:  l.style,
		Blocks: make([]template.HTML, 0, len(doc.Blocks)),
	}
	for _, b := range doc.Blocks {
		data.Blocks = append(data.Blocks, template.HTML(blockHTML(b))) // #nosec G203 -- text is escaped in blockHTML
	}

	var buf bytes.Buffer
	if err := l.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderTemplate, err)
	}

	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// ---------------------------------------------------------------------------
// Block markup
// ---------------------------------------------------------------------------

func blockHTML(b document.Block) string {
	var sb strings.Builder
	switch v := b.(type) {
	case document.Paragraph:
		writeParagraph(&sb, v)
	case document.Table:
		writeTable(&sb, v)
	case document.PageBreak:
		sb.WriteString(`<div class="page-break"></div>`)
	}
	return sb.String()
}

func writeParagraph(sb *strings.Builder, p document.Paragraph) {
	tag := "p"
	if p.Heading >= 1 && p.Heading <= 6 {
		tag = "h" + strconv.Itoa(p.Heading)
	}

	var classes []string
	if p.Align != document.AlignLeft {
		classes = append(classes, "align-"+p.Align.String())
	}
	if p.Text() == "" {
		classes = append(classes, "empty")
	}

	sb.WriteString("<" + tag)
	if len(classes) > 0 {
		sb.WriteString(` class="` + strings.Join(classes, " ") + `"`)
	}
	sb.WriteString(">")
	for _, r := range p.Runs {
		writeRun(sb, r)
	}
	sb.WriteString("</" + tag + ">")
}

func writeRun(sb *strings.Builder, r document.Run) {
	if r.Text == "" {
		return
	}
	if r.Bold {
		sb.WriteString("<strong>")
	}
	if r.Italic {
		sb.WriteString("<em>")
	}
	if r.Underline {
		sb.WriteString("<u>")
	}

	lines := strings.Split(r.Text, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("<br>")
		}
		sb.WriteString(html.EscapeString(line))
	}

	if r.Underline {
		sb.WriteString("</u>")
	}
	if r.Italic {
		sb.WriteString("</em>")
	}
	if r.Bold {
		sb.WriteString("</strong>")
	}
}

func writeTable(sb *strings.Builder, t document.Table) {
	if len(t.Rows) == 0 {
		return
	}
	cols := t.Columns()

	sb.WriteString("<table>")
	for _, row := range t.Rows {
		sb.WriteString("<tr>")
		for i, cell := range row.Cells {
			// The last cell spans the columns a short row is missing.
			if span := cols - len(row.Cells) + 1; i == len(row.Cells)-1 && span > 1 {
				sb.WriteString(`<td colspan="` + strconv.Itoa(span) + `">`)
			} else {
				sb.WriteString("<td>")
			}
			for _, p := range cell.Paragraphs {
				writeParagraph(sb, p)
			}
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
}
