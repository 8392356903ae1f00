//go:build integration

package word2pdf

// Notes:
// - Drives real headless Chrome through go-rod. Rod downloads Chromium on
//   first run if none is found; set ROD_BROWSER_BIN to use an installed one.
// - Each test owns its converter so browsers are not shared across tests.

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"
)

// testTimeout is the standard timeout for integration test operations.
const testTimeout = 60 * time.Second

func assertValidPDF(t *testing.T, data []byte) {
	t.Helper()

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("data does not have PDF magic bytes, got prefix: %q", data[:min(10, len(data))])
	}

	if len(data) < 100 {
		t.Errorf("PDF data suspiciously small: %d bytes", len(data))
	}
}

func TestRodEngine_Print_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	e := newRodEngine(defaultTimeout)
	defer e.Close()

	markup := `<!DOCTYPE html><html><head><title>Test</title></head>` +
		`<body><p>first page</p><div style="break-after: page"></div><p>second page</p></body></html>`

	data, err := e.Print(ctx, markup, &printOptions{Page: DefaultPageSettings(), PageNumbers: true})
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	assertValidPDF(t, data)
}

func TestConvert_Doc_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	dir := t.TempDir()
	src := writeDoc(t, dir, "minutes.doc", "Meeting minutes\rAttendees\x07Alice\x07\x07\fSecond page\r")

	c, err := NewConverter(WithPreferExternal(false))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer c.Close()

	var pages []int
	for _, name := range []string{"first.pdf", "second.pdf"} {
		res, err := c.Convert(ctx, src, filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		assertValidPDF(t, readFile(t, res.Destination))
		pages = append(pages, res.Pages)
	}

	if pages[0] != 2 {
		t.Errorf("Pages = %d, want 2", pages[0])
	}
	if pages[0] != pages[1] {
		t.Errorf("repeated conversion produced %d then %d pages", pages[0], pages[1])
	}
}
