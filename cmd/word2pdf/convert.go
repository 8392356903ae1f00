package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	flag "github.com/spf13/pflag"

	word2pdf "github.com/alnah/go-word2pdf"
	"github.com/alnah/go-word2pdf/internal/assets"
	"github.com/alnah/go-word2pdf/internal/config"
	"github.com/alnah/go-word2pdf/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrNoOutput         = errors.New("no output directory specified")
	ErrNotWordDocument  = errors.New("file must have .doc or .docx extension")
	ErrConflictingFlags = errors.New("conflicting flags")
	ErrConversionFailed = errors.New("conversion failed")
)

// batchError reports how many files of a run failed. It unwraps to
// ErrConversionFailed and to every per-file error.
type batchError struct {
	failed int
	total  int
	err    error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d files failed to convert", e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	return []error{ErrConversionFailed, e.err}
}

// Converter is the part of *word2pdf.Converter the CLI drives.
type Converter interface {
	word2pdf.FileConverter
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*word2pdf.Converter)(nil)

// runConvertCmd parses flags, runs the conversion and returns an exit code.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if flags.conversion.external && flags.conversion.noExternal {
		return fmt.Errorf("%w: --external and --no-external", ErrConflictingFlags)
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())
	envCfg := loadEnvConfig(env.Getenv)

	// Load configuration: --config wins over WORD2PDF_CONFIG
	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if flags.conversion.printConfig {
		data, err := cfg.Encode()
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(data)
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	outputPath := resolveOutputDir(flags.output, cfg)
	if outputPath == "" {
		return ErrNoOutput
	}

	logger := newLogger(env.Stderr, flags.common)

	var run func(Converter) (word2pdf.WorkResult, error)
	if info.IsDir() {
		walker := &treeWalker{root: inputPath, skip: outputPath}
		if flags.conversion.dryRun {
			return printPlan(env.Stdout, walker, outputPath)
		}
		run = func(conv Converter) (word2pdf.WorkResult, error) {
			action := &word2pdf.CopyAction{
				Converter: conv,
				DestDir:   outputPath,
				FailFast:  cfg.Conversion.FailFast,
				Logger:    logger.Named("copy"),
				Progress:  progressPrinter(env, flags.common),
			}
			res := action.Execute(ctx, walker.Entries())
			if walker.err != nil {
				return res, fmt.Errorf("walking %s: %w", inputPath, walker.err)
			}
			return res, nil
		}
	} else {
		if !word2pdf.IsWordDocument(inputPath) {
			return fmt.Errorf("%w: %s", ErrNotWordDocument, inputPath)
		}
		dst := singleFileDestination(inputPath, outputPath)
		if flags.conversion.dryRun {
			fmt.Fprintf(env.Stdout, "%s -> %s\n", inputPath, dst)
			return nil
		}
		run = func(conv Converter) (word2pdf.WorkResult, error) {
			return convertSingle(ctx, conv, inputPath, dst, progressPrinter(env, flags.common)), nil
		}
	}

	opts, err := converterOptions(cfg, logger)
	if err != nil {
		return err
	}
	conv, err := env.NewConverter(opts...)
	if err != nil {
		return withHint(err)
	}
	defer func() { _ = conv.Close() }()

	start := env.Now()
	res, err := run(conv)
	if err != nil {
		return err
	}

	if !flags.common.quiet && len(res.Files) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed", res.Succeeded(), res.Failed())
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, " in %v", env.Now().Sub(start).Round(time.Millisecond))
		}
		fmt.Fprintln(env.Stdout)
	}

	if res.Failed() > 0 {
		return withHint(&batchError{failed: res.Failed(), total: len(res.Files), err: res.Err()})
	}
	return res.Err()
}

// loadConfig loads the config file named by the flag or, failing that, by
// the environment. Without either, defaults are returned.
func loadConfig(flagConfig, envConfig string) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envConfig
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Conversion flags
	if flags.conversion.external {
		v := true
		cfg.Conversion.UseExternal = &v
	}
	if flags.conversion.noExternal {
		v := false
		cfg.Conversion.UseExternal = &v
	}
	if flags.conversion.interpreter != "" {
		cfg.Conversion.Interpreter = flags.conversion.interpreter
	}
	if flags.conversion.fallback != "" {
		cfg.Conversion.Fallback = flags.conversion.fallback
	}
	if flags.conversion.timeout != "" {
		cfg.Conversion.Timeout = flags.conversion.timeout
	}
	if flags.conversion.failFast {
		cfg.Conversion.FailFast = true
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Page.Margin = flags.page.margin
	}
	if flags.page.pageNumbers {
		cfg.Page.PageNumbers = true
	}

	// Asset flags
	if flags.assets.style != "" {
		cfg.CSS.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output path from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// singleFileDestination maps a single input file to its PDF path. An output
// ending in .pdf is used as is; anything else is treated as a directory.
func singleFileDestination(inputPath, output string) string {
	if strings.EqualFold(filepath.Ext(output), ".pdf") {
		return output
	}
	return word2pdf.DestinationPath(output, filepath.Base(inputPath))
}

// buildPageSettings fills unset page fields with defaults.
// Validation happens in word2pdf.NewConverter.
func buildPageSettings(cfg *config.Config) *word2pdf.PageSettings {
	page := word2pdf.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		page.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin != 0 {
		page.Margin = cfg.Page.Margin
	}
	return page
}

// converterOptions translates the merged config into converter options.
func converterOptions(cfg *config.Config, logger hclog.Logger) ([]word2pdf.Option, error) {
	policy, err := word2pdf.ParseFallbackPolicy(cfg.Conversion.Fallback)
	if err != nil {
		return nil, err
	}

	opts := []word2pdf.Option{
		word2pdf.WithLogger(logger),
		word2pdf.WithFallbackPolicy(policy),
		word2pdf.WithPageSettings(buildPageSettings(cfg)),
		word2pdf.WithPageNumbers(cfg.Page.PageNumbers),
		word2pdf.WithInterpreter(cfg.Conversion.Interpreter),
		word2pdf.WithStyle(cfg.CSS.Style),
		word2pdf.WithAssetPath(cfg.Assets.BasePath),
	}
	if cfg.Conversion.UseExternal != nil {
		opts = append(opts, word2pdf.WithPreferExternal(*cfg.Conversion.UseExternal))
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, word2pdf.WithTimeout(d))
	}
	return opts, nil
}

// newLogger builds the CLI logger: warnings by default, debug with
// --verbose, errors only with --quiet.
func newLogger(w io.Writer, common commonFlags) hclog.Logger {
	level := hclog.Warn
	switch {
	case common.quiet:
		level = hclog.Error
	case common.verbose:
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "word2pdf",
		Output: w,
		Level:  level,
	})
}

// convertSingle converts one file and reports it like a one-entry batch.
func convertSingle(ctx context.Context, conv Converter, src, dst string, progress func(word2pdf.FileOutcome)) word2pdf.WorkResult {
	out := word2pdf.FileOutcome{Source: src, Destination: dst}
	out.Result, out.Err = conv.Convert(ctx, src, dst)
	progress(out)
	return word2pdf.WorkResult{Files: []word2pdf.FileOutcome{out}, DidWork: true}
}

// progressPrinter returns the per-file reporter for a run.
func progressPrinter(env *Environment, common commonFlags) func(word2pdf.FileOutcome) {
	return func(o word2pdf.FileOutcome) {
		if o.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", o.Source, o.Err)
			return
		}
		if common.quiet {
			return
		}
		if common.verbose && o.Result != nil {
			via := o.Result.Strategy.String()
			if o.Result.FellBack {
				via += ", fell back"
			}
			fmt.Fprintf(env.Stdout, "OK %s -> %s (%s, %d pages, %v)\n",
				o.Source, o.Destination, via, o.Result.Pages, o.Result.Duration.Round(time.Millisecond))
			return
		}
		fmt.Fprintf(env.Stdout, "OK %s -> %s\n", o.Source, o.Destination)
	}
}

// printPlan lists what a run would convert without converting.
func printPlan(w io.Writer, walker *treeWalker, outputDir string) error {
	n := 0
	for entry := range walker.Entries() {
		if entry.IsDir {
			continue
		}
		fmt.Fprintf(w, "%s -> %s\n", entry.Source, word2pdf.DestinationPath(outputDir, entry.RelPath))
		n++
	}
	if walker.err != nil {
		return fmt.Errorf("walking %s: %w", walker.root, walker.err)
	}
	fmt.Fprintf(w, "\n%d files would be converted\n", n)
	return nil
}

// withHint appends an actionable hint for errors that have one.
func withHint(err error) error {
	switch {
	case errors.Is(err, word2pdf.ErrStyleNotFound):
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound([]string{assets.DefaultStyleName, assets.CompactStyleName}))
	case errors.Is(err, word2pdf.ErrExternalUnavailable):
		return fmt.Errorf("%w%s", err, hints.ForExternalUnavailable(runtime.GOOS))
	case errors.Is(err, word2pdf.ErrExternalConversion):
		return fmt.Errorf("%w%s", err, hints.ForExternalFailure())
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, word2pdf.ErrWritePDF):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	}
	return err
}

// treeWalker streams the directories and Word documents under root.
// Walk errors are recorded in err once the sequence is exhausted.
type treeWalker struct {
	root string
	skip string // output directory, never descended into
	err  error
}

// Entries returns the tree in lexical order, directories before their
// contents. Word lock files (~$name.docx) are skipped.
func (w *treeWalker) Entries() iter.Seq[word2pdf.Entry] {
	return func(yield func(word2pdf.Entry) bool) {
		var skip string
		if w.skip != "" {
			skip, _ = filepath.Abs(w.skip)
		}

		w.err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(w.root, path)
			if err != nil {
				return err
			}
			if rel == "." {
				rel = ""
			}
			entry := word2pdf.Entry{IsDir: d.IsDir(), RelPath: filepath.ToSlash(rel), Source: path}

			if d.IsDir() {
				if abs, _ := filepath.Abs(path); rel != "" && skip != "" && abs == skip {
					return filepath.SkipDir
				}
			} else if !d.Type().IsRegular() ||
				!word2pdf.IsWordDocument(path) ||
				strings.HasPrefix(d.Name(), "~$") {
				return nil
			}

			if !yield(entry) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
