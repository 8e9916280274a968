package linter

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/errors"
	"github.com/cstlint/cstlint/linter/fix"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Linter is the main linting engine. It is safe for concurrent use once built.
type Linter struct {
	config      *Config
	registry    *Registry
	schedule    *Schedule
	ruleConfigs map[string]RuleConfig
	policy      *fix.Policy
	fixOpts     fix.Options
	logger      *zap.Logger
	jobs        int
	fileTimeout time.Duration
	maxRounds   int
}

// Option configures a Linter.
type Option func(*Linter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFixOptions requests autocorrection.
func WithFixOptions(opts fix.Options) Option {
	return func(l *Linter) {
		l.fixOpts = opts
	}
}

// WithJobs bounds how many files LintAll processes at once.
func WithJobs(n int) Option {
	return func(l *Linter) {
		if n > 0 {
			l.jobs = n
		}
	}
}

// WithFileTimeout fails files that take longer than d. Zero disables the deadline.
func WithFileTimeout(d time.Duration) Option {
	return func(l *Linter) {
		l.fileTimeout = d
	}
}

// WithMaxRounds overrides the configured autocorrection round limit.
func WithMaxRounds(n int) Option {
	return func(l *Linter) {
		l.maxRounds = n
	}
}

// NewLinter resolves the enabled rules, validates their options and builds
// the execution schedule. A cycle in the ordering constraints fails here,
// before any file is read.
func NewLinter(cfg *Config, registry *Registry, opts ...Option) (*Linter, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Linter{
		config:   cfg,
		registry: registry,
		logger:   zap.NewNop(),
		jobs:     runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.maxRounds == 0 {
		l.maxRounds = cfg.Rounds()
	}
	if l.fixOpts.Mode == fix.ModeInteractive {
		// Prompts for different files must not interleave.
		l.jobs = 1
	}
	if l.maxRounds < 1 || l.maxRounds > MaxMaxRounds {
		return nil, errors.ErrConfiguration.Wrapf("max rounds must be between 1 and %d, got %d", MaxMaxRounds, l.maxRounds)
	}

	enabled, err := l.enabledRules()
	if err != nil {
		return nil, err
	}

	l.policy = fix.NewPolicy()
	for _, id := range enabled {
		rc := l.ruleConfigs[id]
		if rc.Autocorrect != nil && !*rc.Autocorrect {
			l.policy.Disable(id)
		}
		rule, _ := registry.GetRule(id)
		if c, ok := rule.(ConfigurableRule); ok && rc.Options != nil {
			if err := validateRuleOptions(id, c.ConfigSchema(), rc.Options); err != nil {
				return nil, errors.ErrConfiguration.Wrap(err)
			}
		}
	}

	sched, err := BuildSchedule(registry, enabled, l.logger)
	if err != nil {
		return nil, err
	}
	l.schedule = sched

	l.logger.Debug("rules scheduled",
		zap.Strings("order", sched.Order),
		zap.Strings("dropped", sched.Dropped),
		zap.Int("max_rounds", l.maxRounds))
	return l, nil
}

// enabledRules applies rulesets, then categories, then rule entries.
func (l *Linter) enabledRules() ([]string, error) {
	status := make(map[string]bool)

	for _, name := range l.config.Extends {
		ids, ok := l.registry.GetRuleset(name)
		if !ok {
			return nil, errors.ErrConfiguration.Wrapf("unknown ruleset %q", name)
		}
		for _, id := range ids {
			status[id] = true
		}
	}

	for _, entry := range l.config.Rules {
		if _, ok := l.registry.Descriptor(entry.ID); !ok {
			l.logger.Warn("configuration names an unknown rule", zap.String("rule", entry.ID))
		}
	}

	l.ruleConfigs = make(map[string]RuleConfig)
	for _, id := range l.registry.RegistrationOrder() {
		desc, _ := l.registry.Descriptor(id)
		rc := l.config.ruleConfig(id, desc.Category, l.registry.Canonical)
		l.ruleConfigs[id] = rc
		if rc.Enabled != nil {
			status[id] = *rc.Enabled
		}
	}

	var enabled []string
	for _, id := range l.registry.RegistrationOrder() {
		if status[id] {
			enabled = append(enabled, id)
		}
	}
	return enabled, nil
}

// Registry returns the rule registry for documentation generation
func (l *Linter) Registry() *Registry {
	return l.registry
}

// Schedule returns the execution order computed for this run.
func (l *Linter) Schedule() *Schedule {
	return l.schedule
}

// MaxRounds returns the autocorrection round limit.
func (l *Linter) MaxRounds() int {
	return l.maxRounds
}

func (l *Linter) newFixer() *fix.Engine {
	return fix.NewEngine(l.fixOpts, l.policy)
}

func defaultEffectiveConfig(path string, cfg *Config) *config.EffectiveConfig {
	return config.New(path, cfg.Properties)
}

// Lint runs the scheduled rules against one document. Failures are reported
// in the result rather than returned.
func (l *Linter) Lint(ctx context.Context, doc *DocumentInfo) *FileResult {
	return l.lintFile(ctx, doc)
}

// LintAll lints documents in parallel. Results keep the order of docs.
func (l *Linter) LintAll(ctx context.Context, docs []*DocumentInfo) *Output {
	results := make([]*FileResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.jobs)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = &FileResult{Path: doc.Path, Err: err}
				if doc.Tree != nil {
					results[i].Text = doc.Tree.Text()
				}
				return nil
			}
			results[i] = l.lintFile(gctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	return l.output(results)
}

func (l *Linter) output(results []*FileResult) *Output {
	categories := make(map[string]string)
	for _, id := range l.registry.RegistrationOrder() {
		desc, _ := l.registry.Descriptor(id)
		categories[id] = desc.Category
	}
	return &Output{
		Files:      slices.Clip(results),
		Format:     l.config.OutputFormat,
		Categories: categories,
	}
}
