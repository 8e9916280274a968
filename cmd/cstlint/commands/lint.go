package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/cstlint/cstlint/cache"
	"github.com/cstlint/cstlint/cmd/cstlint/commands/cmdutil"
	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/hashing"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/linter/fix"
	"github.com/cstlint/cstlint/parser/treesitter"
	"github.com/cstlint/cstlint/system"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Lint Kotlin sources",
	Long: `Lint Kotlin sources for spacing, wrapping and line length problems.

Directories are walked recursively for .kt and .kts files. Build output and
VCS directories are skipped. Without paths the current directory is linted.

Use '-' as the only path to read from stdin:
  cat Main.kt | cstlint lint --stdin-path src/Main.kt -

With --fix the corrected source is written to stdout and the report to stderr.

CONFIGURATION:

Properties such as max_line_length or indent_size are read from
.cstlint.yaml, .cstlint.yml or .cstlint.toml files in the directory of each
source and its parents, up to a file declaring root: true.

The run itself (rulesets, severities, ignores) is configured by a lint config,
by default ~/.cstlint/lint.yaml:

  extends: standard

  rules:
    - id: max-line-length
      severity: warning
      options:
        ignore_comments: true
    - id: no-multi-spaces
      enabled: false

AUTOCORRECTION:

Use --fix to apply every available fix and write the files back. Rules are run
again until the source stops changing or --max-rounds is reached. Use
--interactive to confirm each fix, and --dry-run to report what would change.`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: validateLintFlags,
	RunE:    runLint,
}

type lintOptions struct {
	selection

	format      string
	fix         bool
	interactive bool
	dryRun      bool
	jobs        int
	maxRounds   int
	timeout     time.Duration
	cache       bool
	cacheDir    string
	noColor     bool
	stdinPath   string

	// fs is where sources are read from and written back to.
	fs system.WritableFS
}

var lintOpts lintOptions

func init() {
	lintOpts.register(lintCmd)
	lintCmd.Flags().StringVarP(&lintOpts.format, "format", "f", "", "Output format: text, json, summary or checkstyle (default from config)")
	lintCmd.Flags().BoolVar(&lintOpts.fix, "fix", false, "Apply fixes and write the corrected files back")
	lintCmd.Flags().BoolVarP(&lintOpts.interactive, "interactive", "i", false, "Confirm each fix before applying it")
	lintCmd.Flags().BoolVar(&lintOpts.dryRun, "dry-run", false, "Report what would be fixed without changing files (requires --fix or --interactive)")
	lintCmd.Flags().IntVarP(&lintOpts.jobs, "jobs", "j", 0, "Number of files linted in parallel (default: number of CPUs)")
	lintCmd.Flags().IntVar(&lintOpts.maxRounds, "max-rounds", 0, "Autocorrection rounds per file, 1 to 10 (default from config)")
	lintCmd.Flags().DurationVar(&lintOpts.timeout, "timeout", 0, "Fail files that take longer than this to lint")
	lintCmd.Flags().BoolVar(&lintOpts.cache, "cache", false, "Reuse results of unchanged files")
	lintCmd.Flags().StringVar(&lintOpts.cacheDir, "cache-dir", "", "Cache directory (default: $XDG_CACHE_HOME/cstlint)")
	lintCmd.Flags().BoolVar(&lintOpts.noColor, "no-color", false, "Disable colored output")
	lintCmd.Flags().StringVar(&lintOpts.stdinPath, "stdin-path", "", "Path used for configuration and reporting when reading from stdin")
}

func validateLintFlags(_ *cobra.Command, args []string) error {
	return lintOpts.validate(args)
}

func (o *lintOptions) validate(args []string) error {
	if o.fix && o.interactive {
		return fmt.Errorf("--fix and --interactive are mutually exclusive")
	}
	if o.dryRun && !o.fix && !o.interactive {
		return fmt.Errorf("--dry-run requires --fix or --interactive")
	}
	fromStdin := false
	for _, a := range args {
		if cmdutil.IsStdin(a) {
			fromStdin = true
		}
	}
	if fromStdin && len(args) > 1 {
		return fmt.Errorf("'-' cannot be combined with other paths")
	}
	if fromStdin && o.interactive {
		return fmt.Errorf("--interactive is not supported when reading from stdin")
	}
	if o.stdinPath != "" && !fromStdin {
		return fmt.Errorf("--stdin-path requires '-' as the path")
	}
	if o.jobs < 0 {
		return fmt.Errorf("--jobs must not be negative")
	}
	return nil
}

// streams are the standard streams of a command.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func stdStreams() streams {
	return streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

func runLint(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd, os.Stderr)
	if err != nil {
		return cmdutil.Exit(2, err)
	}
	defer func() { _ = log.Sync() }()

	code, err := lintPaths(cmd.Context(), &lintOpts, args, log, stdStreams())
	if err != nil {
		return cmdutil.Exit(2, err)
	}
	if code != 0 {
		return cmdutil.Exit(code, nil)
	}
	return nil
}

// lintPaths lints the sources named by args and returns the exit code. An
// error means nothing was linted.
func lintPaths(ctx context.Context, opts *lintOptions, args []string, log *zap.Logger, s streams) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := opts.validate(args); err != nil {
		return 2, err
	}
	start := time.Now()

	cfg, raw, err := opts.load()
	if err != nil {
		return 2, err
	}
	if opts.format != "" {
		cfg.OutputFormat = linter.OutputFormat(opts.format)
	}

	reg, err := registry()
	if err != nil {
		return 2, err
	}

	fixOpts := opts.fixOptions(s)
	l, err := linter.NewLinter(cfg, reg,
		linter.WithLogger(log),
		linter.WithFixOptions(fixOpts),
		linter.WithJobs(opts.jobs),
		linter.WithMaxRounds(opts.maxRounds),
		linter.WithFileTimeout(opts.timeout),
	)
	if err != nil {
		return 2, err
	}

	r := &lintRun{
		opts:   opts,
		cfg:    cfg,
		rawCfg: raw,
		linter: l,
		fixes:  fixOpts,
		fs:     opts.fs,
		log:    log,
		io:     s,
	}
	if r.fs == nil {
		r.fs = &system.FileSystem{}
	}
	r.resolver = config.NewResolver(r.fs, config.WithOverrides(cfg.Properties))

	files, err := r.sources(args)
	if err != nil {
		return 2, err
	}
	if len(files) == 0 {
		fmt.Fprintln(s.err, "No Kotlin sources found")
		return 0, nil
	}

	if opts.cache && fixOpts.Mode != fix.ModeInteractive {
		r.cache, err = opts.openCache()
		if err != nil {
			log.Warn("cache disabled", zap.Error(err))
		}
	}

	out := r.lint(ctx, files)
	r.writeBack(files, out)

	report, err := out.FormatAs(cfg.OutputFormat, !opts.noColor && !color.NoColor)
	if err != nil {
		return 2, err
	}

	reportTo := s.out
	if files[0].Stdin && fixOpts.Mode != fix.ModeNone {
		reportTo = s.err
		if !fixOpts.DryRun {
			fmt.Fprint(s.out, out.Files[0].Text)
		}
	}
	if report != "" {
		fmt.Fprintln(reportTo, report)
	}

	reportFixResults(s.err, out.Files, fixOpts.DryRun)
	reportElapsed(s.err, len(files), time.Since(start))

	if r.cache != nil {
		stats := r.cache.Stats()
		log.Debug("cache usage",
			zap.String("dir", r.cache.Dir()),
			zap.Int64("hits", stats.Hits),
			zap.Int64("misses", stats.Misses))
	}

	return out.ExitCode(), nil
}

func (o *lintOptions) fixOptions(s streams) fix.Options {
	opts := fix.Options{Mode: fix.ModeNone, DryRun: o.dryRun}
	switch {
	case o.interactive:
		opts.Mode = fix.ModeInteractive
		opts.Prompter = fix.NewTerminalPrompter(s.in, s.err)
	case o.fix:
		opts.Mode = fix.ModeAuto
	}
	return opts
}

func (o *lintOptions) openCache() (*cache.Manager, error) {
	if o.cacheDir != "" {
		return cache.Open(o.cacheDir)
	}
	return cache.OpenDefault("cstlint")
}

// lintRun is one invocation of the lint command.
type lintRun struct {
	opts     *lintOptions
	cfg      *linter.Config
	rawCfg   []byte
	linter   *linter.Linter
	fixes    fix.Options
	resolver *config.Resolver
	cache    *cache.Manager
	fs       system.WritableFS
	log      *zap.Logger
	io       streams

	stdinText string
}

// document is a source on its way to the linter. result is set when the
// source is answered without linting: it failed to load or was cached.
type document struct {
	file   sourceFile
	text   string
	key    string
	info   *linter.DocumentInfo
	result *linter.FileResult
}

func (r *lintRun) sources(args []string) ([]sourceFile, error) {
	if len(args) != 1 || !cmdutil.IsStdin(args[0]) {
		return collectFiles(args, nil)
	}

	data, err := io.ReadAll(r.io.in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	r.stdinText = string(data)

	f := sourceFile{DisplayPath: "<stdin>", Stdin: true}
	if r.opts.stdinPath != "" {
		abs, err := filepath.Abs(r.opts.stdinPath)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", r.opts.stdinPath, err)
		}
		f.AbsPath = abs
		f.DisplayPath = filepath.ToSlash(r.opts.stdinPath)
	}
	return []sourceFile{f}, nil
}

func (r *lintRun) jobs() int {
	if r.opts.jobs > 0 {
		return r.opts.jobs
	}
	return runtime.GOMAXPROCS(0)
}

// mode names the kind of run for cache keys.
func (r *lintRun) mode() string {
	switch {
	case r.fixes.Mode == fix.ModeNone:
		return "lint"
	case r.fixes.DryRun:
		return "dry-run"
	default:
		return "format"
	}
}

func (r *lintRun) lint(ctx context.Context, files []sourceFile) *linter.Output {
	docs := make([]*document, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs())
	for i, f := range files {
		g.Go(func() error {
			docs[i] = r.prepare(gctx, f)
			return nil
		})
	}
	_ = g.Wait()

	var pending []*linter.DocumentInfo
	var slots []int
	for i, d := range docs {
		if d.info != nil {
			pending = append(pending, d.info)
			slots = append(slots, i)
		}
	}

	out := r.linter.LintAll(ctx, pending)

	results := make([]*linter.FileResult, len(docs))
	for j, res := range out.Files {
		d := docs[slots[j]]
		results[slots[j]] = res
		if d.key == "" || !cache.Cacheable(res) {
			continue
		}
		if err := r.cache.Put(d.key, cache.EntryOf(res)); err != nil {
			r.log.Warn("failed to cache result", zap.String("file", d.file.DisplayPath), zap.Error(err))
		}
	}
	for i, d := range docs {
		if results[i] == nil {
			results[i] = d.result
		}
	}
	out.Files = results
	return out
}

func (r *lintRun) prepare(ctx context.Context, f sourceFile) *document {
	d := &document{file: f}

	text, err := r.read(f)
	if err != nil {
		d.result = &linter.FileResult{Path: f.DisplayPath, Err: err}
		return d
	}
	d.text = text

	cfg, err := r.resolve(f)
	if err != nil {
		d.result = &linter.FileResult{Path: f.DisplayPath, Text: text, Err: err}
		return d
	}

	if r.cache != nil {
		d.key = r.cacheKey(text, f, cfg)
		if e, ok := r.cache.Get(d.key); ok {
			r.log.Debug("cache hit", zap.String("file", f.DisplayPath))
			d.result = e.Result(f.DisplayPath, text)
			return d
		}
	}

	tree, err := treesitter.ParseContext(ctx, text)
	if err != nil {
		d.result = &linter.FileResult{Path: f.DisplayPath, Text: text, Err: fmt.Errorf("failed to parse: %w", err)}
		return d
	}
	d.info = linter.NewDocumentInfo(f.DisplayPath, tree, cfg).WithReparse(treesitter.Parse)
	return d
}

func (r *lintRun) read(f sourceFile) (string, error) {
	if f.Stdin {
		return r.stdinText, nil
	}
	data, err := fs.ReadFile(r.fs, f.AbsPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

func (r *lintRun) resolve(f sourceFile) (*config.EffectiveConfig, error) {
	if f.AbsPath == "" {
		c := config.New(f.DisplayPath, r.cfg.Properties)
		return c, c.Validate()
	}
	return r.resolver.Resolve(f.AbsPath)
}

func (r *lintRun) cacheKey(text string, f sourceFile, cfg *config.EffectiveConfig) string {
	settings := []string{r.mode(), hashing.String(string(r.rawCfg)), strconv.Itoa(r.linter.MaxRounds())}
	if len(r.cfg.Ignores) > 0 {
		// Ignore globs match the reported path.
		settings = append(settings, f.DisplayPath)
	}
	return cache.Key(text, cfg, r.linter.Schedule().Order, hashing.Strings(settings...))
}

// writeBack persists corrected sources. A failed write fails the file.
func (r *lintRun) writeBack(files []sourceFile, out *linter.Output) {
	if r.fixes.Mode == fix.ModeNone || r.fixes.DryRun {
		return
	}
	for i, res := range out.Files {
		f := files[i]
		if !res.Changed || res.Err != nil || f.Stdin {
			continue
		}
		if err := r.fs.WriteFile(f.AbsPath, []byte(res.Text), 0o644); err != nil {
			res.Err = fmt.Errorf("failed to write corrected file: %w", err)
			continue
		}
		r.log.Info("corrected file written", zap.String("file", f.DisplayPath), zap.Int("rounds", res.Rounds))
	}
}

func reportFixResults(w io.Writer, results []*linter.FileResult, dryRun bool) {
	prefix := ""
	if dryRun {
		prefix = "[dry-run] "
	}

	var skipped []fix.SkippedFix
	var failed []fix.FailedFix
	for _, res := range results {
		if res.Fixes == nil {
			continue
		}
		skipped = append(skipped, res.Fixes.Skipped...)
		failed = append(failed, res.Fixes.Failed...)
	}

	if len(skipped) > 0 {
		fmt.Fprintf(w, "\n%sSkipped:\n", prefix)
		for _, sf := range skipped {
			v := sf.Violation
			fmt.Fprintf(w, "  %s:%d:%d %s - %s (%s)\n", v.File, v.Line, v.Column, v.Rule, v.Message, sf.Reason)
		}
	}

	if len(failed) > 0 {
		fmt.Fprintf(w, "\n%sFailed:\n", prefix)
		for _, ff := range failed {
			v := ff.Violation
			fmt.Fprintf(w, "  %s:%d:%d %s - %s: %v\n", v.File, v.Line, v.Column, v.Rule, v.Message, ff.FixError)
		}
	}
}

func reportElapsed(w io.Writer, files int, elapsed time.Duration) {
	rounded := elapsed.Round(time.Millisecond)
	if rounded < time.Millisecond {
		rounded = time.Millisecond
	}
	fmt.Fprintf(w, "Linted %d file(s) in %s\n", files, rounded)
}
