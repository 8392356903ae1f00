package word2pdf

// Notes:
// - CopyAction is tested against a recording FileConverter; the real
//   Converter is covered in converter_test.go.
// - Entries are fed through slices.Values to build the iter.Seq.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// recordingConverter records calls and fails for sources in failFor.
type recordingConverter struct {
	calls   [][2]string
	failFor map[string]bool
}

func (r *recordingConverter) Convert(_ context.Context, src, dst string) (*Result, error) {
	r.calls = append(r.calls, [2]string{src, dst})
	if r.failFor[src] {
		return nil, &ConversionError{Source: src, Err: ErrParse}
	}
	return &Result{Source: src, Destination: dst}, nil
}

// ---------------------------------------------------------------------------
// TestDestinationPath
// ---------------------------------------------------------------------------

func TestDestinationPath(t *testing.T) {
	t.Parallel()

	dest := filepath.Join("out", "tree")
	tests := []struct {
		rel  string
		want string
	}{
		{rel: "a.doc", want: filepath.Join(dest, "a.pdf")},
		{rel: "a.docx", want: filepath.Join(dest, "a.pdf")},
		{rel: "sub/dir/Report.DOCX", want: filepath.Join(dest, "sub", "dir", "Report.pdf")},
		{rel: "v1.2.doc", want: filepath.Join(dest, "v1.2.pdf")},
		{rel: "doc.docx.docx", want: filepath.Join(dest, "doc.docx.pdf")},
		{rel: "notes.txt", want: filepath.Join(dest, "notes.txt")},
		{rel: "a.docm", want: filepath.Join(dest, "a.docm")},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			t.Parallel()
			if got := DestinationPath(dest, tt.rel); got != tt.want {
				t.Errorf("DestinationPath(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}

func TestIsWordDocument(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"a.doc":          true,
		"dir/b.docx":     true,
		"C.DOC":          true,
		"d.DocX":         true,
		"e.docm":         false,
		"f.pdf":          false,
		"docx":           false,
		"archive.doc.gz": false,
	}
	for path, want := range tests {
		if got := IsWordDocument(path); got != want {
			t.Errorf("IsWordDocument(%q) = %v, want %v", path, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestCopyAction_Execute
// ---------------------------------------------------------------------------

func TestCopyAction_Execute(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	conv := &recordingConverter{}
	var progress []FileOutcome
	action := &CopyAction{
		Converter: conv,
		DestDir:   dest,
		Progress:  func(o FileOutcome) { progress = append(progress, o) },
	}

	entries := []Entry{
		{IsDir: true, RelPath: ""},
		{IsDir: true, RelPath: "letters"},
		{RelPath: "letters/one.doc", Source: "/src/letters/one.doc"},
		{IsDir: true, RelPath: "letters/empty"},
		{RelPath: "two.docx", Source: "/src/two.docx"},
	}

	res := action.Execute(context.Background(), slices.Values(entries))
	if err := res.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if !res.DidWork {
		t.Error("DidWork = false, want true")
	}
	if res.Dirs != 3 {
		t.Errorf("Dirs = %d, want 3", res.Dirs)
	}
	if res.Succeeded() != 2 || res.Failed() != 0 {
		t.Errorf("Succeeded/Failed = %d/%d, want 2/0", res.Succeeded(), res.Failed())
	}

	want := [][2]string{
		{"/src/letters/one.doc", filepath.Join(dest, "letters", "one.pdf")},
		{"/src/two.docx", filepath.Join(dest, "two.pdf")},
	}
	if !slices.Equal(conv.calls, want) {
		t.Errorf("Convert calls = %v, want %v", conv.calls, want)
	}
	if len(progress) != 2 {
		t.Errorf("progress callbacks = %d, want 2", len(progress))
	}

	if info, err := os.Stat(filepath.Join(dest, "letters", "empty")); err != nil || !info.IsDir() {
		t.Errorf("directory entry not created: %v", err)
	}
}

func TestCopyAction_DirectoriesAreNotConverted(t *testing.T) {
	t.Parallel()

	conv := &recordingConverter{}
	action := &CopyAction{Converter: conv, DestDir: t.TempDir()}

	res := action.Execute(context.Background(), slices.Values([]Entry{
		{IsDir: true, RelPath: "folder.doc"},
		{IsDir: true, RelPath: "nested/archive.docx"},
	}))
	if err := res.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if len(conv.calls) != 0 {
		t.Errorf("Convert calls = %v, want none", conv.calls)
	}
	if len(res.Files) != 0 {
		t.Errorf("Files = %v, want none", res.Files)
	}
}

func TestCopyAction_Failures(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{RelPath: "a.doc", Source: "a.doc"},
		{RelPath: "bad.doc", Source: "bad.doc"},
		{RelPath: "c.doc", Source: "c.doc"},
	}

	tests := []struct {
		name      string
		failFast  bool
		wantCalls int
	}{
		{name: "continue after failure", failFast: false, wantCalls: 3},
		{name: "fail fast", failFast: true, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := &recordingConverter{failFor: map[string]bool{"bad.doc": true}}
			action := &CopyAction{Converter: conv, DestDir: t.TempDir(), FailFast: tt.failFast}

			res := action.Execute(context.Background(), slices.Values(entries))
			if len(conv.calls) != tt.wantCalls {
				t.Errorf("Convert calls = %d, want %d", len(conv.calls), tt.wantCalls)
			}
			if res.Failed() != 1 {
				t.Errorf("Failed() = %d, want 1", res.Failed())
			}

			err := res.Err()
			var convErr *ConversionError
			if !errors.As(err, &convErr) || convErr.Source != "bad.doc" {
				t.Errorf("Err() = %v, want ConversionError for bad.doc", err)
			}
		})
	}
}

func TestCopyAction_NoDestination(t *testing.T) {
	t.Parallel()

	conv := &recordingConverter{}
	action := &CopyAction{Converter: conv}

	res := action.Execute(context.Background(), slices.Values([]Entry{{RelPath: "a.doc", Source: "a.doc"}}))
	if !errors.Is(res.Err(), ErrNoDestination) {
		t.Errorf("Err() = %v, want ErrNoDestination", res.Err())
	}
	if res.DidWork || len(conv.calls) != 0 {
		t.Error("entries were processed without a destination")
	}
}

func TestCopyAction_EmptyStream(t *testing.T) {
	t.Parallel()

	action := &CopyAction{Converter: &recordingConverter{}, DestDir: t.TempDir()}
	res := action.Execute(context.Background(), slices.Values([]Entry(nil)))
	if res.DidWork {
		t.Error("DidWork = true for an empty stream")
	}
	if err := res.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestCopyAction_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &recordingConverter{}
	action := &CopyAction{Converter: conv, DestDir: t.TempDir()}
	res := action.Execute(ctx, slices.Values([]Entry{{RelPath: "a.doc", Source: "a.doc"}}))

	if !errors.Is(res.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", res.Err())
	}
	if len(conv.calls) != 0 {
		t.Errorf("Convert calls = %d, want 0", len(conv.calls))
	}
}
