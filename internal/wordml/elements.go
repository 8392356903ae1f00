package wordml

import (
	"encoding/xml"

	"github.com/alnah/go-word2pdf/internal/document"
)

// xmlToggle is an on/off property such as w:b. Presence means on unless
// w:val says otherwise.
type xmlToggle struct {
	Val string `xml:"val,attr"`
}

func (t *xmlToggle) on() bool {
	if t == nil {
		return false
	}
	switch t.Val {
	case "0", "false", "off":
		return false
	}
	return true
}

type xmlRPr struct {
	Bold      *xmlToggle `xml:"b"`
	Italic    *xmlToggle `xml:"i"`
	Underline *xmlVal    `xml:"u"`
}

func (r xmlRPr) underline() bool {
	return r.Underline != nil && r.Underline.Val != "none" && r.Underline.Val != "0"
}

type xmlPPr struct {
	Style           xmlVal     `xml:"pStyle"`
	Jc              xmlVal     `xml:"jc"`
	OutlineLvl      *xmlVal    `xml:"outlineLvl"`
	PageBreakBefore *xmlToggle `xml:"pageBreakBefore"`
}

func (p xmlPPr) alignment() document.Alignment {
	switch p.Jc.Val {
	case "center":
		return document.AlignCenter
	case "right", "end":
		return document.AlignRight
	case "both", "distribute":
		return document.AlignJustify
	default:
		return document.AlignLeft
	}
}

func (p xmlPPr) heading(styles styleMap) int {
	if lvl := outlineLevel(p.OutlineLvl); lvl > 0 {
		return lvl
	}
	return styles.level(p.Style.Val)
}

// segment is a piece of run content: text with its format, or a page break.
type segment struct {
	text      string
	bold      bool
	italic    bool
	underline bool
	pageBreak bool
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

type xmlRun struct {
	props    xmlRPr
	segments []segment
}

func (r *xmlRun) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.props, &t); err != nil {
					return err
				}
				continue
			case "t":
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				r.addText(s)
				continue
			case "tab":
				r.addText("\t")
			case "br":
				if attr(t, "type") == "page" {
					r.segments = append(r.segments, segment{pageBreak: true})
				} else {
					r.addText("\n")
				}
			case "cr":
				r.addText("\n")
			case "noBreakHyphen":
				r.addText("-")
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// addText records text with the run's properties. Properties are read before
// content in well-formed documents, so they are applied at append time.
func (r *xmlRun) addText(s string) {
	r.segments = append(r.segments, segment{
		text:      s,
		bold:      r.props.Bold.on(),
		italic:    r.props.Italic.on(),
		underline: r.props.underline(),
	})
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Paragraphs
// ---------------------------------------------------------------------------

type xmlParagraph struct {
	props    xmlPPr
	segments []segment
}

// containers whose runs belong to the enclosing paragraph.
var paragraphContainers = map[string]bool{
	"hyperlink":  true,
	"ins":        true,
	"moveTo":     true,
	"smartTag":   true,
	"fldSimple":  true,
	"sdt":        true,
	"sdtContent": true,
	"customXml":  true,
	"dir":        true,
	"bdo":        true,
}

func (p *xmlParagraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "pPr" && depth == 0:
				if err := d.DecodeElement(&p.props, &t); err != nil {
					return err
				}
			case t.Name.Local == "r":
				var r xmlRun
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.segments = append(p.segments, r.segments...)
			case paragraphContainers[t.Name.Local]:
				depth++
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// paragraph returns the paragraph with page breaks dropped.
func (p *xmlParagraph) paragraph(styles styleMap) document.Paragraph {
	para := document.Paragraph{Heading: p.props.heading(styles), Align: p.props.alignment()}
	for _, s := range p.segments {
		para.AppendText(s.text, s.bold, s.italic, s.underline)
	}
	return para
}

// blocks splits the paragraph at page breaks.
func (p *xmlParagraph) blocks(styles styleMap) []document.Block {
	newPara := func() document.Paragraph {
		return document.Paragraph{Heading: p.props.heading(styles), Align: p.props.alignment()}
	}

	var out []document.Block
	if p.props.PageBreakBefore.on() {
		out = append(out, document.PageBreak{})
	}

	para := newPara()
	for _, s := range p.segments {
		if s.pageBreak {
			out = append(out, para, document.PageBreak{})
			para = newPara()
			continue
		}
		para.AppendText(s.text, s.bold, s.italic, s.underline)
	}
	return append(out, para)
}

// ---------------------------------------------------------------------------
// Tables
// ---------------------------------------------------------------------------

type xmlTable struct {
	Rows []xmlRow `xml:"tr"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"tc"`
}

type xmlCell struct {
	Paragraphs []xmlParagraph `xml:"p"`
	Tables     []xmlTable     `xml:"tbl"`
}

func (t *xmlTable) table(styles styleMap) document.Table {
	out := document.Table{Rows: make([]document.Row, 0, len(t.Rows))}
	for _, r := range t.Rows {
		row := document.Row{Cells: make([]document.Cell, 0, len(r.Cells))}
		for _, c := range r.Cells {
			row.Cells = append(row.Cells, c.cell(styles))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// cell flattens nested tables into paragraphs after the cell's own text.
func (c *xmlCell) cell(styles styleMap) document.Cell {
	var cell document.Cell
	for i := range c.Paragraphs {
		cell.Paragraphs = append(cell.Paragraphs, c.Paragraphs[i].paragraph(styles))
	}
	for i := range c.Tables {
		nested := c.Tables[i].table(styles)
		for _, row := range nested.Rows {
			for _, nc := range row.Cells {
				cell.Paragraphs = append(cell.Paragraphs, nc.Paragraphs...)
			}
		}
	}
	return cell
}
