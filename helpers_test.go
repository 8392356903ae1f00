package word2pdf

// Notes:
// - Shared fixtures and mocks for the package tests.
// - Fixtures are generated in Go: .doc files with msdoctest, .docx files with
//   archive/zip. No binary test data is checked in.
// - fakeEngine stands in for headless Chrome. It returns a real one-page PDF
//   drawn by pdfgen so that page counting works on its output.

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alnah/go-word2pdf/internal/document"
	"github.com/alnah/go-word2pdf/internal/msdoc/msdoctest"
	"github.com/alnah/go-word2pdf/internal/pdfgen"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// docxBytes returns a .docx package whose body holds one paragraph per text.
func docxBytes(t *testing.T, texts ...string) []byte {
	t.Helper()

	body := ""
	for _, s := range texts {
		body += `<w:p><w:r><w:t>` + s + `</w:t></w:r></w:p>`
	}
	parts := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>` +
			body + `<w:sectPr/></w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// writeFixture writes data to name inside dir and returns its path.
func writeFixture(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeDoc writes a legacy .doc whose text uses Word's paragraph marks.
func writeDoc(t *testing.T, dir, name, text string) string {
	t.Helper()
	return writeFixture(t, dir, name, msdoctest.Build(text))
}

// writeDocx writes a .docx with one paragraph per text.
func writeDocx(t *testing.T, dir, name string, texts ...string) string {
	t.Helper()
	return writeFixture(t, dir, name, docxBytes(t, texts...))
}

// onePagePDF returns a valid single-page PDF.
func onePagePDF(t *testing.T) []byte {
	t.Helper()
	data, err := pdfgen.RenderBytes(&document.Document{}, pdfgen.Options{})
	if err != nil {
		t.Fatalf("rendering fixture PDF: %v", err)
	}
	return data
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// fakeEngine records print calls and returns canned output.
type fakeEngine struct {
	mu      sync.Mutex
	calls   int
	markup  string
	opts    *printOptions
	output  []byte
	err     error
	closed  int
	onPrint func(ctx context.Context) error
}

func (f *fakeEngine) Print(ctx context.Context, markup string, opts *printOptions) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.markup = markup
	f.opts = opts
	if f.onPrint != nil {
		if err := f.onPrint(ctx); err != nil {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeEngine) printCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeExternal stands in for Word automation. When output is set it writes
// it to the destination; otherwise it fails with err.
type fakeExternal struct {
	mu     sync.Mutex
	calls  int
	output []byte
	err    error
}

func (f *fakeExternal) Render(_ context.Context, req *Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.output != nil {
		return os.WriteFile(req.Destination, f.output, 0o644)
	}
	return f.err
}

func (f *fakeExternal) renderCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newTestConverter builds a Converter with a fake print engine and the given
// external renderer.
func newTestConverter(t *testing.T, engine *fakeEngine, external documentRenderer, available bool, opts ...Option) *Converter {
	t.Helper()
	all := append([]Option{withPrintEngine(engine), withExternal(external, available)}, opts...)
	c, err := NewConverter(all...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}
