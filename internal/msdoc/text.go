package msdoc

import (
	"strings"

	"github.com/alnah/go-word2pdf/internal/document"
)

// Special characters of the main text stream.
const (
	chPicture        = 0x01
	chFootnoteRef    = 0x02
	chAnnotationRef  = 0x05
	chCellMark       = 0x07
	chDrawnObject    = 0x08
	chTab            = 0x09
	chLineBreak      = 0x0B
	chPageBreak      = 0x0C
	chParagraphMark  = 0x0D
	chFieldBegin     = 0x13
	chFieldSeparator = 0x14
	chFieldEnd       = 0x15
	chNonBreakHyphen = 0x1E
	chSoftHyphen     = 0x1F
)

// textBuilder turns the flat main text into blocks.
//
// A cell ends with a cell mark and a row with a second cell mark following
// an empty cell. Paragraph marks inside a row belong to the next cell.
// Without paragraph properties a multi-paragraph first cell cannot be told
// apart from body text, so its leading paragraphs are emitted as body text.
type textBuilder struct {
	blocks  []document.Block
	para    strings.Builder
	pending []document.Paragraph
	row     []document.Cell
	table   *document.Table

	// fields holds one entry per open field: true once the separator was seen.
	fields       []bool
	lastCellMark bool
}

func buildDocument(text string) *document.Document {
	var b textBuilder
	for _, r := range text {
		b.write(r)
	}
	b.finish()
	return &document.Document{Blocks: b.blocks}
}

func (b *textBuilder) write(r rune) {
	cellMark := r == chCellMark
	defer func() { b.lastCellMark = cellMark }()

	switch r {
	case chFieldBegin:
		b.fields = append(b.fields, false)
		return
	case chFieldSeparator:
		if n := len(b.fields); n > 0 {
			b.fields[n-1] = true
		}
		return
	case chFieldEnd:
		if n := len(b.fields); n > 0 {
			b.fields = b.fields[:n-1]
		}
		return
	}

	if b.inFieldCode() {
		return
	}

	switch r {
	case chParagraphMark:
		b.endParagraph()
	case chCellMark:
		b.endCell()
	case chPageBreak:
		if b.para.Len() > 0 {
			b.endParagraph()
		}
		b.closeTable()
		b.blocks = append(b.blocks, document.PageBreak{})
	case chLineBreak:
		b.para.WriteByte('\n')
	case chTab:
		b.para.WriteByte('\t')
	case chNonBreakHyphen:
		b.para.WriteByte('-')
	case chPicture, chFootnoteRef, chAnnotationRef, chDrawnObject, chSoftHyphen:
	default:
		if r < 0x20 {
			return
		}
		b.para.WriteRune(r)
	}
}

// inFieldCode reports whether the current position is inside a field
// instruction, at any nesting level.
func (b *textBuilder) inFieldCode() bool {
	for _, hasResult := range b.fields {
		if !hasResult {
			return true
		}
	}
	return false
}

func (b *textBuilder) takeParagraph() document.Paragraph {
	p := document.Paragraph{}
	if s := b.para.String(); s != "" {
		p.Runs = []document.Run{{Text: s}}
	}
	b.para.Reset()
	return p
}

func (b *textBuilder) endParagraph() {
	p := b.takeParagraph()
	if len(b.row) > 0 {
		b.pending = append(b.pending, p)
		return
	}
	b.flushPending()
	b.closeTable()
	b.blocks = append(b.blocks, p)
}

func (b *textBuilder) endCell() {
	if b.lastCellMark && b.para.Len() == 0 && len(b.pending) == 0 {
		b.endRow()
		return
	}
	if len(b.row) == 0 {
		b.flushPending()
	}
	paras := append(b.pending, b.takeParagraph())
	b.pending = nil
	b.row = append(b.row, document.Cell{Paragraphs: paras})
	if b.table == nil {
		b.table = &document.Table{}
	}
}

func (b *textBuilder) endRow() {
	if len(b.row) == 0 {
		return
	}
	if b.table == nil {
		b.table = &document.Table{}
	}
	b.table.Rows = append(b.table.Rows, document.Row{Cells: b.row})
	b.row = nil
}

func (b *textBuilder) flushPending() {
	if len(b.pending) == 0 {
		return
	}
	b.closeTable()
	for _, p := range b.pending {
		b.blocks = append(b.blocks, p)
	}
	b.pending = nil
}

func (b *textBuilder) closeTable() {
	if b.table == nil {
		return
	}
	if len(b.table.Rows) > 0 {
		b.blocks = append(b.blocks, *b.table)
	}
	b.table = nil
}

func (b *textBuilder) finish() {
	if len(b.row) > 0 {
		if b.para.Len() > 0 {
			b.endCell()
		}
		b.endRow()
	}
	pending := b.pending
	b.pending = nil
	b.closeTable()
	for _, p := range pending {
		b.blocks = append(b.blocks, p)
	}
	if b.para.Len() > 0 {
		b.blocks = append(b.blocks, b.takeParagraph())
	}
}
