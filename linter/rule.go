package linter

import (
	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter/fix"
	"github.com/cstlint/cstlint/validation"
)

// Rule represents a single linting rule
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "range-spacing")
	ID() string

	// Category returns the rule category (e.g., "spacing", "wrapping", "style")
	Category() string

	// Description returns a human-readable description of what the rule checks
	Description() string

	// Summary returns a short summary of what the rule checks
	Summary() string

	// Link returns an optional URL to documentation for this rule
	Link() string

	// DefaultSeverity returns the default severity level for this rule
	DefaultSeverity() validation.Severity
}

// Fix is a deferred autocorrection. The engine decides whether it runs.
type Fix func() error

// Emit reports a violation at offset. A nil fix marks the violation as not
// autocorrectable. The returned decision tells the rule whether its fix ran.
type Emit func(offset int, message string, fix Fix) fix.Decision

// Visitor is the interface every rule implements to take part in traversal.
type Visitor interface {
	Rule

	// BeforeVisit is called for every node, in pre-order, root and leaves included.
	BeforeVisit(node cst.Node, emit Emit)
}

// AfterVisitor is called once all children of a node were visited.
type AfterVisitor interface {
	AfterVisit(node cst.Node, emit Emit)
}

// FileStarter receives the file's configuration before traversal. An error
// fails the file as a configuration error.
type FileStarter interface {
	FileStart(cfg *config.EffectiveConfig) error
}

// FileEnder is called after the traversal of the whole file.
type FileEnder interface {
	FileEnd(emit Emit)
}

// OfficialStyleRule marks rules that belong to the official code style. They
// only run when code_style is official unless enabled explicitly.
type OfficialStyleRule interface {
	OfficialStyle() bool
}

// DependencyMode tells the scheduler what to do when the other rule is absent.
type DependencyMode int

const (
	// Optional constraints are dropped when the other rule is not loaded.
	Optional DependencyMode = iota
	// Required constraints disable the constrained rule when the other rule is not loaded.
	Required
)

func (m DependencyMode) String() string {
	if m == Required {
		return "required"
	}
	return "optional"
}

// Dependency names another rule and how strictly the ordering applies.
type Dependency struct {
	RuleID string
	Mode   DependencyMode
}

// After is shorthand for an optional dependency.
func After(ruleID string) Dependency {
	return Dependency{RuleID: ruleID}
}

// OrderedRule declares ordering constraints relative to other rules.
type OrderedRule interface {
	// RunAfter lists rules that must run before this one.
	RunAfter() []Dependency
	// RunBefore lists rules that must run after this one.
	RunBefore() []Dependency
}

// LateRule asks to be scheduled after every rule that has no such request.
type LateRule interface {
	RunAsLateAsPossible() bool
}

// PropertyUser documents the configuration properties a rule reads.
type PropertyUser interface {
	Properties() []config.Descriptor
}

// AliasedRule lists legacy identifiers that suppression directives may still use.
type AliasedRule interface {
	Aliases() []string
}

// StatelessRule rules share one instance across files and rounds.
type StatelessRule interface {
	Stateless() bool
}

// DocumentedRule provides extended documentation for a rule
type DocumentedRule interface {
	Rule

	// GoodExample returns source showing correct usage
	GoodExample() string

	// BadExample returns source showing incorrect usage
	BadExample() string

	// Rationale explains why this rule exists
	Rationale() string

	// FixAvailable returns true if the rule provides autocorrection
	FixAvailable() bool
}

// ConfigurableRule indicates a rule has configurable options
type ConfigurableRule interface {
	Rule

	// ConfigSchema returns JSON Schema for rule-specific options
	ConfigSchema() map[string]any

	// ConfigDefaults returns default values for options
	ConfigDefaults() map[string]any

	// Configure applies validated options to a fresh instance
	Configure(options map[string]any) error
}

// RuleProvider creates a rule instance.
type RuleProvider func() Visitor

// Descriptor is the capability summary of a rule, derived once per run.
type Descriptor struct {
	ID         string
	Category   string
	RunAfter   []Dependency
	RunBefore  []Dependency
	Properties []config.Descriptor
	Aliases    []string
	Late       bool
	Official   bool
	Stateless  bool
	// index is the registration order, the scheduler's tie-break.
	index int
}

// Describe derives the descriptor of r from the capability interfaces it implements.
func Describe(r Visitor) Descriptor {
	d := Descriptor{ID: r.ID(), Category: r.Category()}
	if o, ok := r.(OrderedRule); ok {
		d.RunAfter = o.RunAfter()
		d.RunBefore = o.RunBefore()
	}
	if p, ok := r.(PropertyUser); ok {
		d.Properties = p.Properties()
	}
	if a, ok := r.(AliasedRule); ok {
		d.Aliases = a.Aliases()
	}
	if l, ok := r.(LateRule); ok {
		d.Late = l.RunAsLateAsPossible()
	}
	if o, ok := r.(OfficialStyleRule); ok {
		d.Official = o.OfficialStyle()
	}
	if s, ok := r.(StatelessRule); ok {
		d.Stateless = s.Stateless()
	}
	return d
}
