// Package document defines the format-neutral document model produced by the
// Word parsers and consumed by the layout and PDF renderers.
package document

import "strings"

// Alignment is the horizontal alignment of a paragraph.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// String returns the CSS text-align keyword for the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// Document is an ordered sequence of blocks with an optional title.
type Document struct {
	Title  string
	Blocks []Block
}

// Block is one of Paragraph, Table or PageBreak.
type Block interface {
	isBlock()
}

// Run is a span of text sharing one character format.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
}

// Paragraph is a run sequence. Heading is 0 for body text, 1-6 otherwise.
type Paragraph struct {
	Heading int
	Align   Alignment
	Runs    []Run
}

// Table is a grid of cells. Rows may have different cell counts.
type Table struct {
	Rows []Row
}

// Row is a table row.
type Row struct {
	Cells []Cell
}

// Cell holds the paragraphs of a table cell.
type Cell struct {
	Paragraphs []Paragraph
}

// PageBreak forces the following block onto a new page.
type PageBreak struct{}

func (Paragraph) isBlock() {}
func (Table) isBlock()     {}
func (PageBreak) isBlock() {}

// Text returns the concatenated text of all runs.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Text returns the cell paragraphs joined by newlines.
func (c Cell) Text() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// Columns returns the widest row's cell count.
func (t Table) Columns() int {
	n := 0
	for _, r := range t.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}

// Text returns the plain text of the document, one line per paragraph.
// Table cells are separated by tabs and page breaks by form feeds.
func (d *Document) Text() string {
	var lines []string
	for _, b := range d.Blocks {
		switch v := b.(type) {
		case Paragraph:
			lines = append(lines, v.Text())
		case Table:
			for _, row := range v.Rows {
				cells := make([]string, len(row.Cells))
				for i, c := range row.Cells {
					cells[i] = c.Text()
				}
				lines = append(lines, strings.Join(cells, "\t"))
			}
		case PageBreak:
			lines = append(lines, "\f")
		}
	}
	return strings.Join(lines, "\n")
}

// IsEmpty reports whether the document has no visible text and no tables.
func (d *Document) IsEmpty() bool {
	for _, b := range d.Blocks {
		switch v := b.(type) {
		case Paragraph:
			if strings.TrimSpace(v.Text()) != "" {
				return false
			}
		case Table:
			if len(v.Rows) > 0 {
				return false
			}
		}
	}
	return true
}

// AppendText appends text to the last run when it has the same format,
// otherwise it starts a new run.
func (p *Paragraph) AppendText(text string, bold, italic, underline bool) {
	if text == "" {
		return
	}
	if n := len(p.Runs); n > 0 {
		last := &p.Runs[n-1]
		if last.Bold == bold && last.Italic == italic && last.Underline == underline {
			last.Text += text
			return
		}
	}
	p.Runs = append(p.Runs, Run{Text: text, Bold: bold, Italic: italic, Underline: underline})
}
