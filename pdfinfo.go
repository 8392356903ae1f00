package word2pdf

import (
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// disablePDFConfigDir stops pdfcpu from creating its config directory under
// the user's home.
var disablePDFConfigDir = sync.OnceFunc(api.DisableConfigDir)

// pageCount reads the number of pages of the PDF at path.
func pageCount(path string) (int, error) {
	disablePDFConfigDir()
	return api.PageCountFile(path)
}
