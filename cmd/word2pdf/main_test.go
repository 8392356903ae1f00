package main

// Notes:
// - runMain: we test command dispatch and exit codes. Conversion details
//   are covered in convert_test.go.
// - TestRunMain_ConvertDocx runs the real converter on .docx input. That
//   path draws PDFs with gofpdf and never starts Chrome.
// - maxprocsLogger: we test that it only writes with --verbose.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		want       int
		wantStdout string
		wantStderr string
	}{
		{name: "no command", args: []string{"word2pdf"}, want: ExitUsage, wantStderr: "Usage: word2pdf"},
		{name: "version", args: []string{"word2pdf", "version"}, want: ExitSuccess, wantStdout: "word2pdf " + Version},
		{name: "version flag", args: []string{"word2pdf", "--version"}, want: ExitSuccess, wantStdout: "word2pdf " + Version},
		{name: "help", args: []string{"word2pdf", "help"}, want: ExitSuccess, wantStdout: "Commands:"},
		{name: "help convert", args: []string{"word2pdf", "help", "convert"}, want: ExitSuccess, wantStdout: "--fallback"},
		{name: "help doctor", args: []string{"word2pdf", "help", "doctor"}, want: ExitSuccess, wantStdout: "--json"},
		{name: "help unknown", args: []string{"word2pdf", "help", "publish"}, want: ExitUsage, wantStderr: "Unknown command: publish"},
		{name: "unknown command", args: []string{"word2pdf", "publish"}, want: ExitUsage, wantStderr: "Unknown command: publish"},
		{name: "convert without output", args: []string{"word2pdf", "convert", "."}, want: ExitIO, wantStderr: "no output directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil, nil)
			if got := runMain(tt.args, env); got != tt.want {
				t.Errorf("runMain(%v) = %d, want %d", tt.args, got, tt.want)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_ConvertDocx - Real converter, library strategy
// ---------------------------------------------------------------------------

func TestRunMain_ConvertDocx(t *testing.T) {
	t.Parallel()

	in := filepath.Join(t.TempDir(), "in")
	writeFile(t, in, "minutes.docx", docxBytes(t, "Minutes of the meeting"))
	writeFile(t, in, "archive/2025/summary.docx", docxBytes(t, "Yearly summary"))
	out := filepath.Join(t.TempDir(), "out")

	env, stdout, stderr := testEnv(nil, nil)
	env.NewConverter = DefaultEnv().NewConverter

	code := runMain([]string{"word2pdf", "convert", in, "-o", out, "--no-external", "-p", "a4"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}

	for _, rel := range []string{"minutes.pdf", "archive/2025/summary.pdf"} {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("reading %s: %v", rel, err)
			continue
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Errorf("%s is not a PDF", rel)
		}
	}
	if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("stdout = %q", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestMaxprocsLogger
// ---------------------------------------------------------------------------

func TestMaxprocsLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	maxprocsLogger([]string{"word2pdf", "convert", "in"}, &buf)("maxprocs: %d", 4)
	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}

	maxprocsLogger([]string{"word2pdf", "convert", "-v"}, &buf)("maxprocs: %d", 4)
	if got := buf.String(); got != "maxprocs: 4\n" {
		t.Errorf("verbose logger wrote %q, want %q", got, "maxprocs: 4\n")
	}
}
