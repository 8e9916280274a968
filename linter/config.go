package linter

import (
	"fmt"
	"path"
	"regexp"

	"github.com/cstlint/cstlint/errors"
	"github.com/cstlint/cstlint/validation"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxRounds bounds autocorrection when the configuration does not.
	DefaultMaxRounds = 3
	// MaxMaxRounds is the largest accepted max_rounds.
	MaxMaxRounds = 10
)

// Config represents the linter configuration
type Config struct {
	// Extends specifies rulesets to extend (e.g., "standard", "all")
	Extends []string `yaml:"extends,omitempty" json:"extends,omitempty"`

	// Rules contains per-rule configuration entries, applied in order
	Rules []RuleEntry `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Categories contains per-category configuration
	Categories map[string]CategoryConfig `yaml:"categories,omitempty" json:"categories,omitempty"`

	// Ignores contains global ignore patterns
	Ignores []IgnorePattern `yaml:"ignores,omitempty" json:"ignores,omitempty"`

	// OutputFormat specifies the output format
	OutputFormat OutputFormat `yaml:"output_format,omitempty" json:"output_format,omitempty"`

	// MaxRounds bounds the number of autocorrection rounds per file
	MaxRounds int `yaml:"max_rounds,omitempty" json:"max_rounds,omitempty"`

	// Properties are applied on top of every file's scoped properties
	Properties map[string]string `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// RuleEntry configures a specific rule
type RuleEntry struct {
	// ID is the rule identifier or one of its legacy aliases
	ID string `yaml:"id" json:"id"`

	// Enabled controls whether the rule is active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`

	// Autocorrect set to false reports the rule's violations without fixing them
	Autocorrect *bool `yaml:"autocorrect,omitempty" json:"autocorrect,omitempty"`

	// Options contains rule-specific configuration
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`

	// Match restricts Enabled and Severity to violations whose message matches
	Match *regexp.Regexp `yaml:"-" json:"-"`
}

// RuleConfig is the merged configuration of one rule
type RuleConfig struct {
	Enabled     *bool
	Severity    *validation.Severity
	Autocorrect *bool
	Options     map[string]any
}

// GetSeverity returns the effective severity, falling back to default if not overridden
func (c *RuleConfig) GetSeverity(defaultSeverity validation.Severity) validation.Severity {
	if c != nil && c.Severity != nil {
		return *c.Severity
	}
	return defaultSeverity
}

// CategoryConfig configures an entire category of rules
type CategoryConfig struct {
	// Enabled controls whether all rules in the category are active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity for all rules in the category
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
}

// IgnorePattern specifies a pattern for ignoring results
type IgnorePattern struct {
	// Rule is the rule ID to ignore (empty = all rules)
	Rule string `yaml:"rule,omitempty" json:"rule,omitempty"`

	// Path is a glob matched against the file path or its base name
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// MessagePattern to match (regex)
	MessagePattern string `yaml:"message_pattern,omitempty" json:"message_pattern,omitempty"`

	message *regexp.Regexp
}

type OutputFormat string

const (
	OutputFormatText       OutputFormat = "text"
	OutputFormatJSON       OutputFormat = "json"
	OutputFormatSummary    OutputFormat = "summary"
	OutputFormatCheckstyle OutputFormat = "checkstyle"
)

// NewConfig creates a new default configuration
func NewConfig() *Config {
	return &Config{
		Extends:      []string{"all"},
		Rules:        []RuleEntry{},
		Categories:   make(map[string]CategoryConfig),
		OutputFormat: OutputFormatText,
		MaxRounds:    DefaultMaxRounds,
	}
}

// UnmarshalYAML accepts extends as a string or a list and compiles match patterns.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawEntry struct {
		RuleEntry `yaml:",inline"`
		Match     string `yaml:"match,omitempty"`
	}
	var raw struct {
		Extends      yaml.Node                 `yaml:"extends"`
		Rules        []rawEntry                `yaml:"rules"`
		Categories   map[string]CategoryConfig `yaml:"categories"`
		Ignores      []IgnorePattern           `yaml:"ignores"`
		OutputFormat OutputFormat              `yaml:"output_format"`
		MaxRounds    int                       `yaml:"max_rounds"`
		Properties   map[string]string         `yaml:"properties"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	switch raw.Extends.Kind {
	case 0:
	case yaml.ScalarNode:
		c.Extends = []string{raw.Extends.Value}
	case yaml.SequenceNode:
		if err := raw.Extends.Decode(&c.Extends); err != nil {
			return err
		}
	default:
		return fmt.Errorf("extends must be a string or a list of strings")
	}

	c.Rules = make([]RuleEntry, 0, len(raw.Rules))
	for _, r := range raw.Rules {
		entry := r.RuleEntry
		if r.Match != "" {
			re, err := regexp.Compile(r.Match)
			if err != nil {
				return fmt.Errorf("rule %q: invalid match pattern: %w", entry.ID, err)
			}
			entry.Match = re
		}
		c.Rules = append(c.Rules, entry)
	}
	c.Categories = raw.Categories
	c.Ignores = raw.Ignores
	c.OutputFormat = raw.OutputFormat
	c.MaxRounds = raw.MaxRounds
	c.Properties = raw.Properties
	return nil
}

// Validate checks the configuration for values the engine cannot honor.
func (c *Config) Validate() error {
	for i, r := range c.Rules {
		if r.ID == "" {
			return errors.ErrConfiguration.Wrapf("rules[%d]: rule entry missing id", i)
		}
	}
	if c.MaxRounds < 0 || c.MaxRounds > MaxMaxRounds {
		return errors.ErrConfiguration.Wrapf("max_rounds must be between 1 and %d, got %d", MaxMaxRounds, c.MaxRounds)
	}
	switch c.OutputFormat {
	case "", OutputFormatText, OutputFormatJSON, OutputFormatSummary, OutputFormatCheckstyle:
	default:
		return errors.ErrConfiguration.Wrapf("unknown output format %q", c.OutputFormat)
	}
	for i := range c.Ignores {
		ig := &c.Ignores[i]
		if ig.Path != "" {
			if _, err := path.Match(ig.Path, ""); err != nil {
				return errors.ErrConfiguration.Wrapf("ignores[%d]: invalid path glob %q: %w", i, ig.Path, err)
			}
		}
		if ig.MessagePattern != "" {
			re, err := regexp.Compile(ig.MessagePattern)
			if err != nil {
				return errors.ErrConfiguration.Wrapf("ignores[%d]: invalid message pattern: %w", i, err)
			}
			ig.message = re
		}
	}
	return nil
}

// Rounds returns the autocorrection round limit.
func (c *Config) Rounds() int {
	if c == nil || c.MaxRounds <= 0 {
		return DefaultMaxRounds
	}
	return min(c.MaxRounds, MaxMaxRounds)
}

// ruleConfig merges category and unconditional rule entries for a rule.
func (c *Config) ruleConfig(id, category string, canonical func(string) string) RuleConfig {
	cfg := RuleConfig{}
	if cat, ok := c.Categories[category]; ok {
		cfg.Enabled = cat.Enabled
		cfg.Severity = cat.Severity
	}
	for _, r := range c.Rules {
		if r.Match != nil || canonical(r.ID) != id {
			continue
		}
		if r.Enabled != nil {
			cfg.Enabled = r.Enabled
		}
		if r.Severity != nil {
			cfg.Severity = r.Severity
		}
		if r.Autocorrect != nil {
			cfg.Autocorrect = r.Autocorrect
		}
		if r.Options != nil {
			cfg.Options = r.Options
		}
	}
	return cfg
}

// matchOverride applies message-scoped entries. It reports false when the
// violation is disabled and otherwise returns its severity.
func (c *Config) matchOverride(id, message string, severity validation.Severity, canonical func(string) string) (validation.Severity, bool) {
	for _, r := range c.Rules {
		if r.Match == nil || canonical(r.ID) != id || !r.Match.MatchString(message) {
			continue
		}
		if r.Enabled != nil && !*r.Enabled {
			return severity, false
		}
		if r.Severity != nil {
			severity = *r.Severity
		}
	}
	return severity, true
}

// ignored reports whether an ignore pattern drops the violation.
func (c *Config) ignored(file, rule, message string) bool {
	for _, ig := range c.Ignores {
		if ig.Rule != "" && ig.Rule != rule {
			continue
		}
		if ig.Path != "" && !matchPath(ig.Path, file) {
			continue
		}
		if ig.MessagePattern != "" {
			re := ig.message
			if re == nil {
				var err error
				if re, err = regexp.Compile(ig.MessagePattern); err != nil {
					continue
				}
			}
			if !re.MatchString(message) {
				continue
			}
		}
		return true
	}
	return false
}

func matchPath(glob, file string) bool {
	if ok, _ := path.Match(glob, file); ok {
		return true
	}
	ok, _ := path.Match(glob, path.Base(file))
	return ok
}
