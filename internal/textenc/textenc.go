// Package textenc decodes text of unknown encoding, such as the console
// output of an external program, into UTF-8.
package textenc

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCharset is used when detection is inconclusive.
const DefaultCharset = "UTF-8"

// MinConfidence is the detector confidence (0-100) below which the result
// is treated as inconclusive.
var MinConfidence = 10

// chardet names that are not WHATWG labels.
var charsetAliases = map[string]string{
	"GB-18030":     "gb18030",
	"ISO-8859-8-I": "iso-8859-8-i",
}

// Detect returns the most likely charset of b and whether detection was
// conclusive. Valid UTF-8 input is reported as UTF-8.
func Detect(b []byte) (string, bool) {
	if len(b) == 0 {
		return DefaultCharset, false
	}
	if utf8.Valid(b) {
		return DefaultCharset, true
	}

	res, err := chardet.NewTextDetector().DetectBest(b)
	if err != nil || res == nil || res.Confidence < MinConfidence {
		return DefaultCharset, false
	}
	if _, err := lookup(res.Charset); err != nil {
		return DefaultCharset, false
	}
	return res.Charset, true
}

// Decode converts b to UTF-8 using the detected charset, falling back to
// UTF-8 with invalid sequences replaced. It returns the text and the charset
// actually used.
func Decode(b []byte) (string, string) {
	name, ok := Detect(b)
	if ok && name != DefaultCharset {
		enc, err := lookup(name)
		if err == nil {
			if out, err := enc.NewDecoder().Bytes(b); err == nil {
				return string(out), name
			}
		}
	}
	return strings.ToValidUTF8(string(b), "�"), DefaultCharset
}

func lookup(name string) (encoding.Encoding, error) {
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}
	return htmlindex.Get(strings.ToLower(name))
}
