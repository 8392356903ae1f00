// Package msdoc reads the text and table structure of legacy Word binary
// documents (.doc, Word 97 and later) into the document model.
//
// The file is an OLE2 compound file. The main text is located through the
// piece table stored in the table stream and referenced by the FIB at the
// start of the WordDocument stream. Character and paragraph formatting is not
// read; tables are recovered from cell and row marks.
package msdoc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/alnah/go-word2pdf/internal/document"
)

// Sentinel errors for parse operations.
var (
	ErrNotWordDocument = errors.New("not a Word binary document")
	ErrEncrypted       = errors.New("encrypted Word documents are not supported")
	ErrCorrupt         = errors.New("corrupt Word binary document")
	ErrStreamTooLarge  = errors.New("document stream too large")
)

// MaxStreamSize limits the size of a single stream read into memory.
var MaxStreamSize int64 = 64 << 20

// Stream names inside the compound file.
const (
	streamWordDocument = "WordDocument"
	streamTable0       = "0Table"
	streamTable1       = "1Table"
)

// Parse reads a Word binary document from r.
func Parse(r io.ReaderAt) (*document.Document, error) {
	streams, err := readStreams(r)
	if err != nil {
		return nil, err
	}

	word, ok := streams[streamWordDocument]
	if !ok {
		return nil, fmt.Errorf("%w: no %s stream", ErrNotWordDocument, streamWordDocument)
	}

	f, err := parseFIB(word)
	if err != nil {
		return nil, err
	}
	if f.encrypted() {
		return nil, ErrEncrypted
	}

	table, ok := streams[f.tableStream()]
	if !ok {
		return nil, fmt.Errorf("%w: no %s stream", ErrCorrupt, f.tableStream())
	}

	pieces, err := parseClx(table, f.fcClx, f.lcbClx)
	if err != nil {
		return nil, err
	}

	text, err := mainText(word, pieces, f.ccpText)
	if err != nil {
		return nil, err
	}

	return buildDocument(text), nil
}

// ParseFile opens path and parses it as a Word binary document.
func ParseFile(path string) (*document.Document, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the conversion source
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// readStreams loads the root-level streams the parser needs.
func readStreams(r io.ReaderAt) (map[string][]byte, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWordDocument, err)
	}

	limit := MaxStreamSize
	if n := sizeOf(r); n >= 0 && n < limit {
		limit = n
	}

	streams := make(map[string][]byte, 3)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if len(entry.Path) != 0 {
			continue
		}
		switch entry.Name {
		case streamWordDocument, streamTable0, streamTable1:
		default:
			continue
		}
		if entry.Size < 0 {
			return nil, fmt.Errorf("%w: negative size for %s", ErrCorrupt, entry.Name)
		}
		// A stream cannot be larger than the file holding it.
		if entry.Size > limit {
			return nil, fmt.Errorf("%w: %s declares %d bytes, limit %d", ErrStreamTooLarge, entry.Name, entry.Size, limit)
		}
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, buf); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrCorrupt, entry.Name, err)
		}
		streams[entry.Name] = buf
	}

	return streams, nil
}

// sizeOf returns the length of r when it exposes one, else -1.
func sizeOf(r io.ReaderAt) int64 {
	switch v := r.(type) {
	case interface{ Size() int64 }:
		return v.Size()
	case interface{ Stat() (os.FileInfo, error) }:
		if info, err := v.Stat(); err == nil {
			return info.Size()
		}
	}
	return -1
}

// ---------------------------------------------------------------------------
// File Information Block
// ---------------------------------------------------------------------------

const (
	wIdent = 0xA5EC

	offFlags = 0x000A
	offCsw   = 0x0020

	flagEncrypted   = 0x0100
	flagWhichTblStm = 0x0200

	// Index of the fcClx/lcbClx pair in FibRgFcLcb97.
	clxPairIndex = 33
)

type fib struct {
	flags   uint16
	ccpText uint32
	fcClx   uint32
	lcbClx  uint32
}

func (f fib) encrypted() bool {
	return f.flags&flagEncrypted != 0
}

func (f fib) tableStream() string {
	if f.flags&flagWhichTblStm != 0 {
		return streamTable1
	}
	return streamTable0
}

// parseFIB walks the variable-length FIB sections to locate ccpText and the
// Clx position.
func parseFIB(word []byte) (fib, error) {
	var f fib
	le := binary.LittleEndian

	if len(word) < offCsw+2 || le.Uint16(word) != wIdent {
		return f, fmt.Errorf("%w: bad FIB identifier", ErrNotWordDocument)
	}
	f.flags = le.Uint16(word[offFlags:])

	pos := offCsw
	csw := int(le.Uint16(word[pos:]))
	pos += 2 + csw*2

	if len(word) < pos+2 {
		return f, fmt.Errorf("%w: truncated FIB", ErrCorrupt)
	}
	cslw := int(le.Uint16(word[pos:]))
	pos += 2
	if cslw < 4 || len(word) < pos+cslw*4+2 {
		return f, fmt.Errorf("%w: truncated FIB", ErrCorrupt)
	}
	f.ccpText = le.Uint32(word[pos+12:])
	pos += cslw * 4

	cbRgFcLcb := int(le.Uint16(word[pos:]))
	pos += 2
	if cbRgFcLcb <= clxPairIndex || len(word) < pos+(clxPairIndex+1)*8 {
		return f, fmt.Errorf("%w: truncated FIB", ErrCorrupt)
	}
	f.fcClx = le.Uint32(word[pos+clxPairIndex*8:])
	f.lcbClx = le.Uint32(word[pos+clxPairIndex*8+4:])

	return f, nil
}

// ---------------------------------------------------------------------------
// Piece table
// ---------------------------------------------------------------------------

const (
	clxPrc  = 0x01
	clxPcdt = 0x02

	fcCompressed = 0x40000000
	fcMask       = 0x3FFFFFFF
)

type piece struct {
	cpStart    uint32
	cpEnd      uint32
	offset     uint32 // byte offset in the WordDocument stream
	compressed bool
}

// parseClx skips the Prc entries and decodes the PlcPcd.
func parseClx(table []byte, fcClx, lcbClx uint32) ([]piece, error) {
	if uint64(fcClx)+uint64(lcbClx) > uint64(len(table)) {
		return nil, fmt.Errorf("%w: Clx out of bounds", ErrCorrupt)
	}
	clx := table[fcClx : fcClx+lcbClx]
	le := binary.LittleEndian

	for i := 0; i < len(clx); {
		switch clx[i] {
		case clxPrc:
			if i+3 > len(clx) {
				return nil, fmt.Errorf("%w: truncated Prc", ErrCorrupt)
			}
			cb := int(int16(le.Uint16(clx[i+1:])))
			if cb < 0 {
				return nil, fmt.Errorf("%w: negative Prc size", ErrCorrupt)
			}
			i += 3 + cb
		case clxPcdt:
			if i+5 > len(clx) {
				return nil, fmt.Errorf("%w: truncated Pcdt", ErrCorrupt)
			}
			lcb := int(le.Uint32(clx[i+1:]))
			start := i + 5
			if lcb < 0 || start+lcb > len(clx) {
				return nil, fmt.Errorf("%w: Pcdt out of bounds", ErrCorrupt)
			}
			return parsePlcPcd(clx[start : start+lcb])
		default:
			return nil, fmt.Errorf("%w: unexpected Clx tag 0x%02x", ErrCorrupt, clx[i])
		}
	}

	return nil, fmt.Errorf("%w: no piece table", ErrCorrupt)
}

func parsePlcPcd(b []byte) ([]piece, error) {
	if len(b) < 4 || (len(b)-4)%12 != 0 {
		return nil, fmt.Errorf("%w: bad PlcPcd size %d", ErrCorrupt, len(b))
	}
	le := binary.LittleEndian
	n := (len(b) - 4) / 12
	pcds := b[(n+1)*4:]

	pieces := make([]piece, n)
	for k := range n {
		p := piece{
			cpStart: le.Uint32(b[k*4:]),
			cpEnd:   le.Uint32(b[(k+1)*4:]),
		}
		if p.cpEnd < p.cpStart {
			return nil, fmt.Errorf("%w: piece %d ends before it starts", ErrCorrupt, k)
		}
		fc := le.Uint32(pcds[k*8+2:])
		p.compressed = fc&fcCompressed != 0
		p.offset = fc & fcMask
		if p.compressed {
			p.offset /= 2
		}
		pieces[k] = p
	}

	return pieces, nil
}

// mainText concatenates the pieces covering [0, ccpText).
func mainText(word []byte, pieces []piece, ccpText uint32) (string, error) {
	var b strings.Builder
	cp1252 := charmap.Windows1252.NewDecoder()
	utf16le := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

	for _, p := range pieces {
		if p.cpStart >= ccpText {
			break
		}
		n := int(min(p.cpEnd, ccpText) - p.cpStart)
		start := int(p.offset)

		size := n * 2
		if p.compressed {
			size = n
		}
		if start+size > len(word) {
			return "", fmt.Errorf("%w: piece at %d exceeds stream", ErrCorrupt, start)
		}

		dec := utf16le
		if p.compressed {
			dec = cp1252
		}
		s, err := dec.Bytes(word[start : start+size])
		if err != nil {
			return "", fmt.Errorf("%w: decoding text: %v", ErrCorrupt, err)
		}
		b.Write(s)
	}

	return b.String(), nil
}
