package main

// Notes:
// - Test infrastructure shared by the command tests: a map-backed
//   Environment, a recording converter, and tree fixtures.
// - The recording converter writes a small placeholder file so the output
//   tree can be inspected without Chrome.

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	word2pdf "github.com/alnah/go-word2pdf"
)

// ---------------------------------------------------------------------------
// Test Environment
// ---------------------------------------------------------------------------

// testEnv returns an Environment with captured output, the given variables
// and a converter factory that hands out conv.
func testEnv(vars map[string]string, conv *recordingConverter) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			sort.Strings(out)
			return out
		},
		LookPath: func(name string) (string, error) {
			return "", fmt.Errorf("%s: not found", name)
		},
		NewConverter: func(...word2pdf.Option) (Converter, error) {
			if conv == nil {
				return nil, fmt.Errorf("no converter configured")
			}
			return conv, nil
		},
	}
	return env, stdout, stderr
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// recordingConverter records conversions and fails for sources whose base
// name is in failFor.
type recordingConverter struct {
	mu      sync.Mutex
	calls   [][2]string
	failFor map[string]bool
	closed  int
}

func (r *recordingConverter) Convert(_ context.Context, src, dst string) (*word2pdf.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, [2]string{src, dst})
	r.mu.Unlock()

	if r.failFor[filepath.Base(src)] {
		return nil, &word2pdf.ConversionError{Source: src, Err: word2pdf.ErrParse}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return nil, err
	}
	if err := os.WriteFile(dst, []byte("%PDF-1.4 test"), 0o644); err != nil {
		return nil, err
	}
	return &word2pdf.Result{Source: src, Destination: dst, Strategy: word2pdf.StrategyLibrary, Pages: 1}, nil
}

func (r *recordingConverter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func (r *recordingConverter) converted() [][2]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][2]string(nil), r.calls...)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// writeFile creates path (and its parents) under dir with content.
func writeFile(t *testing.T, dir, rel string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// docxBytes returns a minimal .docx package with one paragraph.
func docxBytes(t *testing.T, text string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p><w:sectPr/></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// sampleTree creates:
//
//	in/report.docx
//	in/letters/one.doc
//	in/letters/~$one.doc   (Word lock file)
//	in/letters/notes.txt
//	in/empty/
func sampleTree(t *testing.T) string {
	t.Helper()
	in := filepath.Join(t.TempDir(), "in")
	writeFile(t, in, "report.docx", []byte("docx"))
	writeFile(t, in, "letters/one.doc", []byte("doc"))
	writeFile(t, in, "letters/~$one.doc", []byte("lock"))
	writeFile(t, in, "letters/notes.txt", []byte("text"))
	if err := os.MkdirAll(filepath.Join(in, "empty"), 0o750); err != nil {
		t.Fatal(err)
	}
	return in
}
