package testutils

import (
	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
)

// Rule is a rule assembled from callbacks. Nil callbacks do nothing.
type Rule struct {
	Name     string
	Cat      string
	Severity validation.Severity
	Deps     []linter.Dependency
	Before   []linter.Dependency
	Late     bool
	Legacy   []string

	OnStart func(cfg *config.EffectiveConfig) error
	OnVisit func(n cst.Node, emit linter.Emit)
	OnAfter func(n cst.Node, emit linter.Emit)
	OnEnd   func(emit linter.Emit)
}

var (
	_ linter.Visitor      = (*Rule)(nil)
	_ linter.AfterVisitor = (*Rule)(nil)
	_ linter.FileStarter  = (*Rule)(nil)
	_ linter.FileEnder    = (*Rule)(nil)
	_ linter.OrderedRule  = (*Rule)(nil)
	_ linter.LateRule     = (*Rule)(nil)
	_ linter.AliasedRule  = (*Rule)(nil)
)

// Provider returns a provider creating copies of r.
func (r Rule) Provider() linter.RuleProvider {
	return func() linter.Visitor {
		c := r
		return &c
	}
}

func (r *Rule) ID() string { return r.Name }
func (r *Rule) Category() string {
	if r.Cat == "" {
		return "test"
	}
	return r.Cat
}
func (r *Rule) Description() string                  { return "test rule " + r.Name }
func (r *Rule) Summary() string                      { return "test rule" }
func (r *Rule) Link() string                         { return "" }
func (r *Rule) DefaultSeverity() validation.Severity { return r.Severity }
func (r *Rule) RunAfter() []linter.Dependency        { return r.Deps }
func (r *Rule) RunBefore() []linter.Dependency       { return r.Before }
func (r *Rule) RunAsLateAsPossible() bool            { return r.Late }
func (r *Rule) Aliases() []string                    { return r.Legacy }

func (r *Rule) FileStart(cfg *config.EffectiveConfig) error {
	if r.OnStart == nil {
		return nil
	}
	return r.OnStart(cfg)
}

func (r *Rule) BeforeVisit(n cst.Node, emit linter.Emit) {
	if r.OnVisit != nil {
		r.OnVisit(n, emit)
	}
}

func (r *Rule) AfterVisit(n cst.Node, emit linter.Emit) {
	if r.OnAfter != nil {
		r.OnAfter(n, emit)
	}
}

func (r *Rule) FileEnd(emit linter.Emit) {
	if r.OnEnd != nil {
		r.OnEnd(emit)
	}
}

// SpaceBefore requires exactly one space before every leaf of kind.
func SpaceBefore(name string, kind cst.Kind) Rule {
	return Rule{
		Name: name,
		OnVisit: func(n cst.Node, emit linter.Emit) {
			if n.Kind() != kind {
				return
			}
			prev := n.PrevLeaf()
			if prev.IsWhitespace() && prev.Text() == " " {
				return
			}
			emit(n.Offset(), "Missing space before \""+n.Text()+"\"", func() error {
				return n.Tree().UpsertWhitespaceBefore(n, " ")
			})
		},
	}
}

// NoSpaceBefore forbids whitespace without line breaks before every leaf of kind.
func NoSpaceBefore(name string, kind cst.Kind) Rule {
	return Rule{
		Name: name,
		OnVisit: func(n cst.Node, emit linter.Emit) {
			if n.Kind() != kind {
				return
			}
			prev := n.PrevLeaf()
			if !prev.IsWhitespace() || prev.IsWhitespaceWithNewline() {
				return
			}
			emit(prev.Offset(), "Unexpected space before \""+n.Text()+"\"", func() error {
				return n.Tree().Remove(prev)
			})
		},
	}
}

// Reporter reports every leaf of kind without a fix.
func Reporter(name string, kind cst.Kind) Rule {
	return Rule{
		Name: name,
		OnVisit: func(n cst.Node, emit linter.Emit) {
			if n.Kind() == kind {
				emit(n.Offset(), "found "+string(kind), nil)
			}
		},
	}
}
