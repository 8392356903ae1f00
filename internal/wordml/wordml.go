// Package wordml reads Office Open XML word-processing documents (.docx)
// into the document model.
package wordml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-word2pdf/internal/document"
)

// Sentinel errors for parse operations.
var (
	ErrNotDocx      = errors.New("not a Word OOXML document")
	ErrMissingBody  = errors.New("document body not found")
	ErrMalformedXML = errors.New("malformed document XML")
	ErrPartTooLarge = errors.New("document part exceeds maximum size")
)

// MaxPartSize limits the uncompressed size of a single package part.
var MaxPartSize int64 = 64 << 20

// Package part names.
const (
	partDocument = "word/document.xml"
	partStyles   = "word/styles.xml"
	partCore     = "docProps/core.xml"
)

// Parse reads a .docx package of the given size from r.
func Parse(r io.ReaderAt, size int64) (*document.Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	body, ok := parts[partDocument]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, partDocument)
	}

	// Styles and core properties are optional; a broken one is ignored.
	styles := styleMap{}
	if f, ok := parts[partStyles]; ok {
		if data, err := readPart(f); err == nil {
			styles, _ = parseStyles(data)
		}
	}

	data, err := readPart(body)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(data, styles)
	if err != nil {
		return nil, err
	}

	if f, ok := parts[partCore]; ok {
		if data, err := readPart(f); err == nil {
			doc.Title = parseCoreTitle(data)
		}
	}

	return doc, nil
}

// ParseFile opens path and parses it as a .docx package.
func ParseFile(path string) (*document.Document, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the conversion source
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return Parse(f, info.Size())
}

func readPart(f *zip.File) ([]byte, error) {
	if int64(f.UncompressedSize64) > MaxPartSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrPartTooLarge, f.Name, f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrNotDocx, f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNotDocx, f.Name, err)
	}
	if int64(len(data)) > MaxPartSize {
		return nil, fmt.Errorf("%w: %s", ErrPartTooLarge, f.Name)
	}

	return data, nil
}

// decodeDocument streams the body so paragraphs and tables keep their order.
func decodeDocument(data []byte, styles styleMap) (*document.Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, ErrMissingBody
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "body" {
			blocks, err := decodeBody(dec, styles)
			if err != nil {
				return nil, err
			}
			return &document.Document{Blocks: blocks}, nil
		}
	}
}

func decodeBody(dec *xml.Decoder, styles styleMap) ([]document.Block, error) {
	var blocks []document.Block

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p xmlParagraph
				if err := dec.DecodeElement(&p, &t); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
				blocks = append(blocks, p.blocks(styles)...)
			case "tbl":
				var tbl xmlTable
				if err := dec.DecodeElement(&tbl, &t); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
				blocks = append(blocks, tbl.table(styles))
			case "sectPr", "del", "moveFrom":
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
			// Other containers (sdt, customXml...) are walked into.
		case xml.EndElement:
			if t.Name.Local == "body" {
				return blocks, nil
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Styles and core properties
// ---------------------------------------------------------------------------

type xmlVal struct {
	Val string `xml:"val,attr"`
}

type xmlStyles struct {
	Styles []xmlStyle `xml:"style"`
}

type xmlStyle struct {
	Type    string `xml:"type,attr"`
	ID      string `xml:"styleId,attr"`
	Name    xmlVal `xml:"name"`
	BasedOn xmlVal `xml:"basedOn"`
	PPr     xmlPPr `xml:"pPr"`
}

type xmlCoreProperties struct {
	Title string `xml:"title"`
}

// styleMap maps paragraph style IDs to heading levels.
type styleMap map[string]int

const maxBasedOnDepth = 10

func parseStyles(data []byte) (styleMap, error) {
	var s xmlStyles
	if err := xml.Unmarshal(data, &s); err != nil {
		return styleMap{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	byID := make(map[string]xmlStyle, len(s.Styles))
	for _, st := range s.Styles {
		if st.Type == "" || st.Type == "paragraph" {
			byID[st.ID] = st
		}
	}

	m := make(styleMap, len(byID))
	for id := range byID {
		cur, ok := byID[id]
		for range maxBasedOnDepth {
			if !ok {
				break
			}
			if lvl := styleLevel(cur); lvl > 0 {
				m[id] = lvl
				break
			}
			cur, ok = byID[cur.BasedOn.Val]
		}
	}

	return m, nil
}

// styleLevel derives a heading level from a style's outline level or name.
func styleLevel(st xmlStyle) int {
	if lvl := outlineLevel(st.PPr.OutlineLvl); lvl > 0 {
		return lvl
	}
	return levelFromName(st.Name.Val)
}

// levelFromName recognizes built-in heading names and IDs.
func levelFromName(name string) int {
	n := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if n == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(n, "heading"); ok {
		if lvl, err := strconv.Atoi(rest); err == nil && lvl >= 1 && lvl <= 6 {
			return lvl
		}
	}
	return 0
}

func outlineLevel(v *xmlVal) int {
	if v == nil {
		return 0
	}
	lvl, err := strconv.Atoi(v.Val)
	if err != nil || lvl < 0 || lvl > 5 {
		return 0
	}
	return lvl + 1
}

// level resolves a paragraph style ID, falling back to built-in names.
func (m styleMap) level(styleID string) int {
	if styleID == "" {
		return 0
	}
	if lvl, ok := m[styleID]; ok {
		return lvl
	}
	return levelFromName(styleID)
}

func parseCoreTitle(data []byte) string {
	var core xmlCoreProperties
	if err := xml.Unmarshal(data, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
