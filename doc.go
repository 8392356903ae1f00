// Package word2pdf converts Word documents (.doc, .docx) to PDF.
//
// # Quick Start
//
// Create a converter, convert a file, and close when done:
//
//	conv, err := word2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, "report.docx", "out/report.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Strategy, result.Pages)
//
// # Conversion Strategies
//
// Two strategies produce the PDF:
//
//   - External: Microsoft Word is driven by an automation script run through
//     cscript. Available on Windows only.
//   - Library: the document is parsed in-process. Legacy .doc files are laid
//     out as HTML and printed with headless Chrome (go-rod); .docx files are
//     drawn directly with gofpdf.
//
// The external strategy is preferred where available. When it fails to
// produce the destination file, the converter falls back to the library
// strategy for that file. With FallbackSticky (the default) the rest of the
// run then uses the library strategy; FallbackPerFile tries Word again on
// the next file.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := word2pdf.NewConverter(
//	    word2pdf.WithPreferExternal(false),
//	    word2pdf.WithPageSettings(&word2pdf.PageSettings{Size: "a4", Orientation: "portrait", Margin: 1}),
//	    word2pdf.WithPageNumbers(true),
//	    word2pdf.WithLogger(logger),
//	)
//
// # Copying Directory Trees
//
// CopyAction mirrors a directory tree, converting every Word document it is
// given and creating the directories along the way:
//
//	action := &word2pdf.CopyAction{Converter: conv, DestDir: "out"}
//	result := action.Execute(ctx, entries)
//	if err := result.Err(); err != nil {
//	    log.Print(err)
//	}
//
// # Requirements
//
// Converting .doc files with the library strategy requires Chrome or
// Chromium. Rod downloads Chromium on first use if none is found. In
// containers, set ROD_BROWSER_BIN to a pre-installed browser, and
// ROD_NO_SANDBOX=1 when running as root.
package word2pdf
