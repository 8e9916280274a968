package standard

import (
	"strings"

	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
)

const RuleNoMultiSpaces = "no-multi-spaces"

// NoMultiSpacesRule collapses runs of spaces between tokens on one line.
// Indentation and the spacing before an end-of-line comment are left alone.
type NoMultiSpacesRule struct{}

var _ linter.DocumentedRule = (*NoMultiSpacesRule)(nil)

func NewNoMultiSpacesRule() linter.Visitor {
	return &NoMultiSpacesRule{}
}

func (r *NoMultiSpacesRule) ID() string {
	return RuleNoMultiSpaces
}

func (r *NoMultiSpacesRule) Category() string {
	return CategorySpacing
}

func (r *NoMultiSpacesRule) Description() string {
	return "Tokens on the same line are separated by at most one space."
}

func (r *NoMultiSpacesRule) Summary() string {
	return "No consecutive spaces."
}

func (r *NoMultiSpacesRule) Link() string {
	return linkBase + RuleNoMultiSpaces
}

func (r *NoMultiSpacesRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}

func (r *NoMultiSpacesRule) Stateless() bool {
	return true
}

func (r *NoMultiSpacesRule) GoodExample() string {
	return "val x = 1 + 2\n"
}

func (r *NoMultiSpacesRule) BadExample() string {
	return "val x  =   1 + 2\n"
}

func (r *NoMultiSpacesRule) Rationale() string {
	return "Alignment by extra spaces breaks as soon as a neighbouring line changes."
}

func (r *NoMultiSpacesRule) FixAvailable() bool {
	return true
}

func (r *NoMultiSpacesRule) BeforeVisit(node cst.Node, emit linter.Emit) {
	if !node.IsWhitespace() || strings.ContainsAny(node.Text(), "\r\n") || len(node.Text()) < 2 {
		return
	}
	prev := node.PrevLeaf()
	if prev.IsNil() || prev.IsWhitespaceWithNewline() {
		return
	}
	next := node.NextLeaf()
	if next.IsNil() || next.Kind() == cst.KindComment {
		return
	}
	emit(node.Offset()+1, "Unnecessary long whitespace", func() error {
		return node.Tree().SetText(node, " ")
	})
}
