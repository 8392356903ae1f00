package fileutil_test

// Notes:
// - TestWriteTempFile_CreateTempError: this test modifies the global TMPDIR
//   environment variable and cannot run in parallel with other tests.
// - The WriteString and Close error branches are not tested because
//   triggering disk write failures is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-word2pdf/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{
			name:      "valid extension pdf",
			extension: "pdf",
			wantErr:   nil,
		},
		{
			name:      "valid extension html",
			extension: "html",
			wantErr:   nil,
		},
		{
			name:      "empty extension",
			extension: "",
			wantErr:   fileutil.ErrExtensionEmpty,
		},
		{
			name:      "forward slash path traversal",
			extension: "../etc/passwd",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "backslash path traversal",
			extension: "..\\windows\\system32",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "null byte injection",
			extension: "html\x00exe",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		extension string
	}{
		{
			name:      "automation script",
			content:   "WScript.Echo \"hi\"",
			extension: "vbs",
		},
		{
			name:      "html file",
			content:   "<html><body>Test Content</body></html>",
			extension: "html",
		},
		{
			name:      "empty content",
			content:   "",
			extension: "html",
		},
		{
			name:      "unicode content",
			content:   "<p>Привет, café, naïve</p>",
			extension: "html",
		},
		{
			name:      "unicode html content",
			content:   "<html><body>Hello World</body></html>",
			extension: "html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, cleanup, err := fileutil.WriteTempFile(tt.content, tt.extension)
			if err != nil {
				t.Fatalf("WriteTempFile() error = %v", err)
			}
			defer cleanup()

			// Verify file exists
			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Errorf("temp file does not exist at %s", path)
			}

			// Verify path pattern
			if !strings.Contains(path, "word2pdf-") {
				t.Errorf("path %q does not contain prefix 'word2pdf-'", path)
			}
			if !strings.HasSuffix(path, "."+tt.extension) {
				t.Errorf("path %q does not have extension .%s", path, tt.extension)
			}

			// Verify content
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read temp file: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("file content = %q, want %q", string(data), tt.content)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile_Cleanup - Cleanup function removes file
// ---------------------------------------------------------------------------

func TestWriteTempFile_Cleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("test content", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	// Verify file exists before cleanup
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("temp file does not exist at %s", path)
	}

	// Call cleanup
	cleanup()

	// Verify file is removed after cleanup
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup at %s", path)
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile_InvalidExtension - Invalid extension errors
// ---------------------------------------------------------------------------

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{
			name:      "empty extension",
			extension: "",
			wantErr:   fileutil.ErrExtensionEmpty,
		},
		{
			name:      "path traversal",
			extension: "../foo",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, cleanup, err := fileutil.WriteTempFile("content", tt.extension)
			if cleanup != nil {
				defer cleanup()
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("WriteTempFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile_CreateTempError - CreateTemp failure handling
// ---------------------------------------------------------------------------

// NOTE: This test modifies TMPDIR and cannot run in parallel.
func TestWriteTempFile_CreateTempError(t *testing.T) {
	// Set TMPDIR to a non-existent directory to trigger CreateTemp failure
	t.Setenv("TMPDIR", "/nonexistent/path/that/does/not/exist")

	_, cleanup, err := fileutil.WriteTempFile("content", "html")
	if cleanup != nil {
		defer cleanup()
	}

	if err == nil {
		t.Fatal("WriteTempFile() expected error when TMPDIR is invalid, got nil")
	}

	if !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("WriteTempFile() error = %q, want error containing 'creating temp file'", err.Error())
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile_LargeContent - Large file handling
// ---------------------------------------------------------------------------

func TestWriteTempFile_LargeContent(t *testing.T) {
	t.Parallel()

	// Test with large content to verify WriteString handles it correctly
	largeContent := strings.Repeat("x", 1024*1024) // 1MB

	path, cleanup, err := fileutil.WriteTempFile(largeContent, "txt")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	defer cleanup()

	// Verify file contains all content
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if len(data) != len(largeContent) {
		t.Errorf("file size = %d, want %d", len(data), len(largeContent))
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File existence check
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	// Create a test file
	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	// Create a test directory
	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "existing file returns true",
			path: testFile,
			want: true,
		},
		{
			name: "directory returns false",
			path: testDir,
			want: false,
		},
		{
			name: "nonexistent path returns false",
			path: filepath.Join(tempDir, "nonexistent"),
			want: false,
		},
		{
			name: "empty path returns false",
			path: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.FileExists(tt.path)
			if got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDirExists - Directory existence check
// ---------------------------------------------------------------------------

func TestDirExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "file.doc")
	if err := os.WriteFile(testFile, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"directory returns true", tempDir, true},
		{"file returns false", testFile, false},
		{"nonexistent returns false", filepath.Join(tempDir, "missing"), false},
		{"empty path returns false", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.DirExists(tt.path); got != tt.want {
				t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExtractToTempDir - Script extraction
// ---------------------------------------------------------------------------

func TestExtractToTempDir(t *testing.T) {
	t.Parallel()

	content := []byte("Option Explicit\r\n")
	path, cleanup, err := fileutil.ExtractToTempDir("word2pdf.vbs", content)
	if err != nil {
		t.Fatalf("ExtractToTempDir() error = %v", err)
	}

	if filepath.Base(path) != "word2pdf.vbs" {
		t.Errorf("base name = %q, want word2pdf.vbs", filepath.Base(path))
	}
	if !strings.HasPrefix(filepath.Base(filepath.Dir(path)), "word2pdf-") {
		t.Errorf("directory %q does not have prefix 'word2pdf-'", filepath.Dir(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read extracted file: %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("content = %q, want %q", data, content)
	}

	cleanup()
	if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
		t.Errorf("temp directory still exists after cleanup")
	}
}

func TestExtractToTempDir_FreshDirectoryEachCall(t *testing.T) {
	t.Parallel()

	first, cleanup1, err := fileutil.ExtractToTempDir("a.vbs", nil)
	if err != nil {
		t.Fatalf("ExtractToTempDir() error = %v", err)
	}
	defer cleanup1()

	second, cleanup2, err := fileutil.ExtractToTempDir("a.vbs", nil)
	if err != nil {
		t.Fatalf("ExtractToTempDir() error = %v", err)
	}
	defer cleanup2()

	if filepath.Dir(first) == filepath.Dir(second) {
		t.Errorf("both extractions used directory %q", filepath.Dir(first))
	}
}

func TestExtractToTempDir_InvalidName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "../evil.vbs", "dir/evil.vbs", "dir\\evil.vbs", "nul\x00.vbs"} {
		_, cleanup, err := fileutil.ExtractToTempDir(name, []byte("x"))
		if cleanup != nil {
			cleanup()
		}
		if !errors.Is(err, fileutil.ErrInvalidFileName) {
			t.Errorf("ExtractToTempDir(%q) error = %v, want ErrInvalidFileName", name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic destination writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.pdf")

	if err := fileutil.WriteFileAtomic(path, []byte("%PDF-first"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("%PDF-second"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if string(data) != "%PDF-second" {
		t.Errorf("content = %q, want %q", data, "%PDF-second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp file left behind)", len(entries))
	}
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.pdf")
	err := fileutil.WriteFileAtomic(path, []byte("x"), 0644)
	if err == nil {
		t.Fatal("WriteFileAtomic() expected error for missing directory, got nil")
	}
	if fileutil.FileExists(path) {
		t.Error("destination exists after failed write")
	}
}

// ---------------------------------------------------------------------------
// TestMoveAside - Keeping an earlier output until a conversion succeeds
// ---------------------------------------------------------------------------

func TestMoveAside(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		existing    string // "" means no file at path
		restore     bool
		overwrite   string // written to path after MoveAside; "" means none
		wantContent string // "" means path must not exist
	}{
		{name: "restore puts the old file back", existing: "%PDF-old", restore: true, wantContent: "%PDF-old"},
		{name: "restore replaces partial output", existing: "%PDF-old", restore: true, overwrite: "%PDF-part", wantContent: "%PDF-old"},
		{name: "discard keeps the new output", existing: "%PDF-old", overwrite: "%PDF-new", wantContent: "%PDF-new"},
		{name: "missing file restore is a no-op", restore: true},
		{name: "missing file discard keeps new output", overwrite: "%PDF-new", wantContent: "%PDF-new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "report.pdf")
			if tt.existing != "" {
				if err := os.WriteFile(path, []byte(tt.existing), 0644); err != nil {
					t.Fatal(err)
				}
			}

			restore, discard, err := fileutil.MoveAside(path)
			if err != nil {
				t.Fatalf("MoveAside() error = %v", err)
			}
			if fileutil.FileExists(path) {
				t.Fatal("path still exists after MoveAside()")
			}

			if tt.overwrite != "" {
				if err := os.WriteFile(path, []byte(tt.overwrite), 0644); err != nil {
					t.Fatal(err)
				}
			}
			finish := discard
			if tt.restore {
				finish = restore
			}
			if err := finish(); err != nil {
				t.Fatalf("finish error = %v", err)
			}

			data, err := os.ReadFile(path)
			switch {
			case tt.wantContent == "" && err == nil:
				t.Errorf("path exists with %q, want no file", data)
			case tt.wantContent != "" && string(data) != tt.wantContent:
				t.Errorf("content = %q (err %v), want %q", data, err, tt.wantContent)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range entries {
				if e.Name() != "report.pdf" {
					t.Errorf("backup %s left behind", e.Name())
				}
			}
		})
	}
}

func TestMoveAside_DirectoryIsLeftAlone(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}

	restore, discard, err := fileutil.MoveAside(path)
	if err != nil {
		t.Fatalf("MoveAside() error = %v", err)
	}
	if !fileutil.DirExists(path) {
		t.Error("directory was moved")
	}
	if err := restore(); err != nil {
		t.Errorf("restore() error = %v", err)
	}
	if err := discard(); err != nil {
		t.Errorf("discard() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestReplaceExt - Extension replacement
// ---------------------------------------------------------------------------

func TestReplaceExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"report.docx", "report.pdf"},
		{"dir/old.DOC", "dir/old.pdf"},
		{"archive.tar.doc", "archive.tar.pdf"},
		{"noext", "noext.pdf"},
	}

	for _, tt := range tests {
		if got := fileutil.ReplaceExt(tt.path, ".pdf"); got != tt.want {
			t.Errorf("ReplaceExt(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
