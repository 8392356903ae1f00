package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// conversionFlags holds strategy and batch flags.
type conversionFlags struct {
	external    bool
	noExternal  bool
	interpreter string
	fallback    string
	timeout     string
	failFast    bool
	dryRun      bool
	printConfig bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
	pageNumbers bool
}

// assetFlags holds asset-related flags (CSS style, custom asset path).
type assetFlags struct {
	style     string // Name or path for the .doc layout style
	assetPath string // Override asset directory
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	conversion conversionFlags
	page       pageFlags
	assets     assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show strategy, pages and timing")
}

// addConversionFlags adds conversion flags to a FlagSet.
func addConversionFlags(fs *flag.FlagSet, f *conversionFlags) {
	fs.BoolVar(&f.external, "external", false, "try Word automation first")
	fs.BoolVar(&f.noExternal, "no-external", false, "never use Word automation")
	fs.StringVar(&f.interpreter, "interpreter", "", "automation script host (default: cscript)")
	fs.StringVar(&f.fallback, "fallback", "", "fallback policy: sticky, per-file")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.failFast, "fail-fast", false, "stop at the first failed file")
	fs.BoolVar(&f.dryRun, "dry-run", false, "list conversions without converting")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective configuration as YAML and exit")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.BoolVar(&f.pageNumbers, "page-numbers", false, "print page numbers in the footer")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name for .doc layout")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// parseConvertFlags parses convert command flags and returns positional args.
// Parse errors are reported on stderr.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory, or .pdf path for a single file")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addConversionFlags(fs, &f.conversion)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
