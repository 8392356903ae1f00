package word2pdf

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"regexp"

	"github.com/hashicorp/go-hclog"
)

// FileConverter converts a single document. *Converter implements it.
type FileConverter interface {
	Convert(ctx context.Context, src, dst string) (*Result, error)
}

var _ FileConverter = (*Converter)(nil)

// Entry is one item of a directory tree being copied.
type Entry struct {
	IsDir   bool
	RelPath string // path relative to the tree root
	Source  string // path of the entry on disk
}

// FileOutcome is the result of copying one file entry.
type FileOutcome struct {
	Source      string
	Destination string
	Result      *Result // nil on failure
	Err         error
}

// WorkResult summarizes a copy run.
type WorkResult struct {
	Files   []FileOutcome
	Dirs    int  // directories created
	DidWork bool // at least one entry was processed
	errs    []error
}

// Succeeded returns the number of files converted.
func (w WorkResult) Succeeded() int {
	n := 0
	for _, f := range w.Files {
		if f.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of files that could not be converted.
func (w WorkResult) Failed() int {
	return len(w.Files) - w.Succeeded()
}

// Err joins every failure of the run, or returns nil.
func (w WorkResult) Err() error {
	errs := append([]error(nil), w.errs...)
	for _, f := range w.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}

// CopyAction mirrors a tree into DestDir, converting Word documents to PDF.
type CopyAction struct {
	Converter FileConverter
	DestDir   string
	FailFast  bool              // stop at the first failed file
	Logger    hclog.Logger      // nil = discard
	Progress  func(FileOutcome) // called after each file, optional
}

// wordExt matches the Word extensions replaced in destination names.
var wordExt = regexp.MustCompile(`(?i)^(.+)\.docx?$`)

// DestinationPath returns where the PDF for rel goes under destDir:
// "a/b.docx" becomes destDir/a/b.pdf.
func DestinationPath(destDir, rel string) string {
	return wordExt.ReplaceAllString(filepath.Join(destDir, filepath.FromSlash(rel)), "${1}.pdf")
}

// IsWordDocument reports whether path has a .doc or .docx extension.
func IsWordDocument(path string) bool {
	return FormatOf(path) != FormatUnknown
}

// Execute processes entries in order. Directories are created under
// DestDir; files are converted to their destination path. A failed file
// does not stop the run unless FailFast is set.
func (a *CopyAction) Execute(ctx context.Context, entries iter.Seq[Entry]) WorkResult {
	var res WorkResult

	if a.DestDir == "" {
		res.errs = append(res.errs, ErrNoDestination)
		return res
	}

	logger := a.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	for entry := range entries {
		if err := ctx.Err(); err != nil {
			res.errs = append(res.errs, err)
			break
		}
		res.DidWork = true

		if entry.IsDir {
			dir := filepath.Join(a.DestDir, filepath.FromSlash(entry.RelPath))
			if err := os.MkdirAll(dir, 0o750); err != nil {
				res.errs = append(res.errs, fmt.Errorf("creating directory %s: %w", dir, err))
				if a.FailFast {
					break
				}
				continue
			}
			res.Dirs++
			logger.Trace("created directory", "path", dir)
			continue
		}

		out := FileOutcome{
			Source:      entry.Source,
			Destination: DestinationPath(a.DestDir, entry.RelPath),
		}
		out.Result, out.Err = a.Converter.Convert(ctx, entry.Source, out.Destination)
		res.Files = append(res.Files, out)
		if a.Progress != nil {
			a.Progress(out)
		}

		if out.Err != nil {
			logger.Debug("conversion failed", "source", entry.Source, "error", out.Err)
			if a.FailFast {
				break
			}
		}
	}

	return res
}
