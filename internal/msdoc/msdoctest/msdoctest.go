// Package msdoctest builds minimal Word binary documents for tests.
//
// The output is a version 3 compound file holding a WordDocument stream with
// a Word 97 FIB and a 1Table stream with a single-piece Clx. Streams are
// padded past the mini stream cutoff so that every stream lives in regular
// sectors.
package msdoctest

import (
	"encoding/binary"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// Options tweak the generated document.
type Options struct {
	Compressed bool // store text as 8-bit cp1252 instead of UTF-16LE
	Encrypted  bool // set the fEncrypted FIB flag
	NoTable    bool // omit the table stream
}

// Build returns a .doc file whose main text is text. Text uses Word's control
// characters: "\r" ends a paragraph, "\a" ends a cell, "\f" breaks a page.
func Build(text string) []byte {
	return BuildWith(text, Options{})
}

// BuildWith is Build with options.
func BuildWith(text string, opts Options) []byte {
	const textOffset = 0x800

	var textBytes []byte
	var cch int
	if opts.Compressed {
		enc, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
		if err != nil {
			panic("msdoctest: text not representable in cp1252: " + err.Error())
		}
		textBytes, cch = enc, len(enc)
	} else {
		units := utf16.Encode([]rune(text))
		textBytes = make([]byte, len(units)*2)
		for i, u := range units {
			binary.LittleEndian.PutUint16(textBytes[i*2:], u)
		}
		cch = len(units)
	}

	le := binary.LittleEndian

	word := make([]byte, textOffset+len(textBytes))
	le.PutUint16(word[0x00:], 0xA5EC) // wIdent
	le.PutUint16(word[0x02:], 0x00C1) // nFib
	flags := uint16(0x0200)           // fWhichTblStm
	if opts.Encrypted {
		flags |= 0x0100
	}
	le.PutUint16(word[0x0A:], flags)
	le.PutUint16(word[0x20:], 14)          // csw
	le.PutUint16(word[0x3E:], 22)          // cslw
	le.PutUint32(word[0x4C:], uint32(cch)) // ccpText
	le.PutUint16(word[0x98:], 0x5D)        // cbRgFcLcb
	copy(word[textOffset:], textBytes)

	fc := uint32(textOffset)
	if opts.Compressed {
		fc = uint32(textOffset*2) | 0x40000000
	}

	// Clx: one Prc (to be skipped) followed by the Pcdt.
	clx := []byte{0x01, 0x02, 0x00, 0xAA, 0xBB, 0x02}
	clx = le.AppendUint32(clx, 16)
	clx = le.AppendUint32(clx, 0)
	clx = le.AppendUint32(clx, uint32(cch))
	clx = append(clx, 0x00, 0x00)
	clx = le.AppendUint32(clx, fc)
	clx = append(clx, 0x00, 0x00)

	le.PutUint32(word[0x1A2:], 0)                // fcClx
	le.PutUint32(word[0x1A6:], uint32(len(clx))) // lcbClx

	streams := []stream{{name: "WordDocument", data: word}}
	if !opts.NoTable {
		streams = append(streams, stream{name: "1Table", data: clx})
	}
	return compoundFile(streams)
}

// ---------------------------------------------------------------------------
// Compound file writer
// ---------------------------------------------------------------------------

const (
	sectorSize      = 512
	miniCutoff      = 4096
	entriesPerDir   = sectorSize / 128
	freeSect        = 0xFFFFFFFF
	endOfChain      = 0xFFFFFFFE
	fatSect         = 0xFFFFFFFD
	noStream        = 0xFFFFFFFF
	typeStream      = 2
	typeRootStorage = 5
)

type stream struct {
	name string
	data []byte
}

// compoundFile lays out: header, FAT sector 0, directory sector 1, then each
// stream in consecutive sectors. Supports up to two streams.
func compoundFile(streams []stream) []byte {
	if len(streams) > entriesPerDir-1 {
		panic("msdoctest: too many streams")
	}
	le := binary.LittleEndian

	padded := make([][]byte, len(streams))
	starts := make([]uint32, len(streams))
	next := uint32(2)
	for i, s := range streams {
		size := max(len(s.data), miniCutoff)
		size = (size + sectorSize - 1) / sectorSize * sectorSize
		buf := make([]byte, size)
		copy(buf, s.data)
		padded[i] = buf
		starts[i] = next
		next += uint32(size / sectorSize)
	}
	if next > sectorSize/4 {
		panic("msdoctest: document too large for a single FAT sector")
	}

	header := make([]byte, sectorSize)
	copy(header, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	le.PutUint16(header[24:], 0x003E) // minor version
	le.PutUint16(header[26:], 0x0003) // major version
	le.PutUint16(header[28:], 0xFFFE) // byte order
	le.PutUint16(header[30:], 9)      // sector shift
	le.PutUint16(header[32:], 6)      // mini sector shift
	le.PutUint32(header[44:], 1)      // FAT sectors
	le.PutUint32(header[48:], 1)      // first directory sector
	le.PutUint32(header[56:], miniCutoff)
	le.PutUint32(header[60:], endOfChain) // first mini FAT sector
	le.PutUint32(header[68:], endOfChain) // first DIFAT sector
	for i := range 109 {
		le.PutUint32(header[76+i*4:], freeSect)
	}
	le.PutUint32(header[76:], 0) // FAT lives in sector 0

	fat := make([]byte, sectorSize)
	for i := range sectorSize / 4 {
		le.PutUint32(fat[i*4:], freeSect)
	}
	le.PutUint32(fat[0:], fatSect)
	le.PutUint32(fat[4:], endOfChain)
	for i, buf := range padded {
		n := uint32(len(buf) / sectorSize)
		for k := range n {
			sect := starts[i] + k
			val := sect + 1
			if k == n-1 {
				val = endOfChain
			}
			le.PutUint32(fat[sect*4:], val)
		}
	}

	dir := make([]byte, sectorSize)
	writeEntry(dir[0:], "Root Entry", typeRootStorage, noStream, noStream, 1, endOfChain, 0)
	// Siblings are ordered by name length first: "1Table" < "WordDocument".
	left := uint32(noStream)
	if len(streams) > 1 {
		left = 2
	}
	for i, s := range streams {
		l := uint32(noStream)
		if i == 0 {
			l = left
		}
		writeEntry(dir[(i+1)*128:], s.name, typeStream, l, noStream, noStream, starts[i], uint32(len(padded[i])))
	}
	for i := len(streams) + 1; i < entriesPerDir; i++ {
		e := dir[i*128:]
		le.PutUint32(e[68:], noStream)
		le.PutUint32(e[72:], noStream)
		le.PutUint32(e[76:], noStream)
	}

	out := make([]byte, 0, int(next+1)*sectorSize)
	out = append(out, header...)
	out = append(out, fat...)
	out = append(out, dir...)
	for _, buf := range padded {
		out = append(out, buf...)
	}
	return out
}

func writeEntry(e []byte, name string, objType byte, left, right, child, start, size uint32) {
	le := binary.LittleEndian
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		le.PutUint16(e[i*2:], u)
	}
	le.PutUint16(e[64:], uint16((len(units)+1)*2))
	e[66] = objType
	e[67] = 1 // black
	le.PutUint32(e[68:], left)
	le.PutUint32(e[72:], right)
	le.PutUint32(e[76:], child)
	le.PutUint32(e[116:], start)
	le.PutUint32(e[120:], size)
}
